package render

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cwbudde/go-pkl/internal/interp/runtime"
)

// Binary renders root's generic Go shape (see toGo) as plain MessagePack,
// with the same library internal/reader uses for the External Reader
// Bridge protocol. The output is a MessagePack map of property names to
// values; it has no module envelope and no per-object class or kind
// headers, so it is not Pkl's own binary format.
func Binary(root *runtime.Object) ([]byte, error) {
	g, err := toGo(root)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(g)
}
