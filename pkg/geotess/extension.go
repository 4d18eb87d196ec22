package geotess

import "github.com/geotess/geotess-go/internal/ioformat"

// Extension is the derived-class hook (§4.6): a model subclass (e.g. the
// out-of-core seismic amplitude or path-uncertainty sub-models this
// library treats as external collaborators) reads and writes its own
// extra bytes immediately after the base model payload.
type Extension = ioformat.Extension

// ExtensionReader and ExtensionWriter give a derived-class Extension the
// typed helpers (little-endian fixed-width fields, length-prefixed
// strings, nested string maps) the base payload itself is built from.
type (
	ExtensionReader = ioformat.Reader
	ExtensionWriter = ioformat.Writer
)

// RegisterExtension adds a derived-class factory to the registry keyed by
// its class tag, consumed by the model loader when it meets a non-empty
// class tag after the base payload (§4.6).
func RegisterExtension(classTag string, factory func() Extension) {
	ioformat.RegisterExtension(classTag, factory)
}
