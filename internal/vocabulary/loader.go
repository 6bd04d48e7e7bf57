package vocabulary

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
	"resumeparser/internal/errors"
)

// Load reads a YAML vocabulary file. Keys missing from the file keep their
// built-in values; synonym groups are merged per section.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("vocabulary file does not exist: %s", path), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to read vocabulary file: %s", path), err)
	}

	v, err := Parse(data)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return nil, appErr.WithContext("path", path)
		}
		return nil, err
	}
	return v, nil
}

// Parse decodes YAML vocabulary data on top of the defaults.
func Parse(data []byte) (*Vocabulary, error) {
	v := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidVocabulary,
			"failed to parse vocabulary", err)
	}

	v.Normalize()
	if err := v.Validate(); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidVocabulary, err.Error(), nil)
	}
	return v, nil
}

// LoadOrDefault loads path when set and falls back to the built-in vocabulary.
func LoadOrDefault(path string) (*Vocabulary, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Marshal encodes v as YAML.
func Marshal(v *Vocabulary) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
