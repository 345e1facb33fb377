package ports

import "context"

// ExportWriter stores an exported game document under a file name.
type ExportWriter interface {
	// WriteExport writes doc and returns where it was written.
	WriteExport(ctx context.Context, name string, doc []byte) (string, error)
}
