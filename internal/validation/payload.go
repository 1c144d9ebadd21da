package validation

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/studyboosters/backend/internal/model"
)

const (
	// MaxPayloadSize is the largest accepted decoded file size.
	MaxPayloadSize = 10 << 20
	// ChunkSize is the length of each stored text chunk of a large payload.
	ChunkSize = 4 << 20
)

var (
	ErrInvalidPayload  = errors.New("invalid file payload")
	ErrPayloadTooLarge = errors.New("file too large: maximum size is 10 MB")
)

var allowedFileTypes = map[model.FileType]bool{
	model.FileTypePDF: true,
	model.FileTypeDOC: true,
	model.FileTypePPT: true,
	model.FileTypeZIP: true,
	model.FileTypeIMG: true,
}

func ValidateFileType(fileType model.FileType) error {
	if !allowedFileTypes[fileType] {
		return fmt.Errorf("invalid file type: %q", fileType)
	}
	return nil
}

// Payload is a decoded file body.
type Payload struct {
	ContentType string
	Data        []byte
}

// DecodePayload parses a base64 data URL ("data:<mime>;base64,<data>") or bare
// base64 text and enforces MaxPayloadSize.
func DecodePayload(text string) (*Payload, error) {
	contentType := "application/octet-stream"
	encoded := text

	if rest, ok := strings.CutPrefix(text, "data:"); ok {
		header, body, found := strings.Cut(rest, ",")
		if !found {
			return nil, fmt.Errorf("%w: malformed data URL", ErrInvalidPayload)
		}
		mediaType, isBase64 := strings.CutSuffix(header, ";base64")
		if !isBase64 {
			return nil, fmt.Errorf("%w: data URL must be base64 encoded", ErrInvalidPayload)
		}
		if mediaType != "" {
			contentType = mediaType
		}
		encoded = body
	}

	if base64.StdEncoding.DecodedLen(len(encoded)) > MaxPayloadSize+2 {
		return nil, ErrPayloadTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if len(data) > MaxPayloadSize {
		return nil, ErrPayloadTooLarge
	}

	return &Payload{ContentType: contentType, Data: data}, nil
}

// Chunk splits payload text into ChunkSize pieces.
func Chunk(text string) []string {
	chunks := make([]string, 0, len(text)/ChunkSize+1)
	for len(text) > ChunkSize {
		chunks = append(chunks, text[:ChunkSize])
		text = text[ChunkSize:]
	}
	return append(chunks, text)
}
