// Package domain contains the core entities shared across the vaultstream
// codec: job instructions, key material, and the error kinds callers match
// against.
package domain

// FileTransferInstruction identifies one codec job. SourcePath and
// DestinationPath are assumed already validated by an external collaborator
// (path validation is explicitly out of scope for the core). FileID is an
// opaque caller identifier used to address the key vault; it is never
// embedded in the ciphertext.
type FileTransferInstruction struct {
	FileID          string
	SourcePath      string
	DestinationPath string
}

// Validate performs the minimal structural check the core is responsible
// for: it does not resolve, sandbox, or canonicalize paths, only rejects the
// obviously-unusable zero value.
func (i FileTransferInstruction) Validate() error {
	if i.FileID == "" {
		return NewValidationError("file_id must not be empty")
	}
	if i.SourcePath == "" {
		return NewValidationError("source_path must not be empty")
	}
	if i.DestinationPath == "" {
		return NewValidationError("destination_path must not be empty")
	}
	return nil
}
