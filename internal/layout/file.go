package layout

import "os"

// FileExt is the extension for layout documents saved as standalone files.
const FileExt = ".flyer.json"

// WriteFile writes the document as an indented JSON file.
func WriteFile(d *Document, path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads a layout document from a JSON file.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
