/*
PURPOSE:
  Writes the test plan document as indented JSON.

REQUIREMENTS:
  User-specified:
  - UTF-8, 2-space indentation, non-ASCII left unescaped.
  - No truncated artifact on failure.

  Implementation-discovered:
  - renameio gives temp file + fsync + rename, so a failed write leaves the previous file (or nothing).
  - encoding/json escapes <, > and & by default; HTML escaping is disabled.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: internal/model.Document

ERROR HANDLING:
  - Returns wrapped error on marshal, create, write or rename failure.

USAGE:
  err := output.WriteDocument("universal_test_config.json", doc)
*/

package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/renameio/v2"

	"github.com/daryltucker/sd-testgen/internal/model"
)

// MarshalDocument encodes doc with 2-space indentation and no trailing newline.
func MarshalDocument(doc *model.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteDocument atomically replaces path with the encoded document.
func WriteDocument(path string, doc *model.Document) error {
	data, err := MarshalDocument(doc)
	if err != nil {
		return fmt.Errorf("encode test config: %w", err)
	}
	return writeAtomic(path, func(pf *renameio.PendingFile) error {
		_, err := pf.Write(data)
		return err
	})
}

func writeAtomic(path string, write func(*renameio.PendingFile) error) error {
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file %s: %w", path, err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			Logger.Debug("cleanup pending file", "path", path, "error", err)
		}
	}()

	if err := write(pendingFile); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}
