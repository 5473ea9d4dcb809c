package classify

import (
	"encoding/base64"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/errors"
)

// ClassifyBytes classifies a dropped file or binary clipboard payload.
// Images are embedded as a base64 data URI and classified as a binary image;
// UTF-8 text goes through [Classifier.Classify]. Other content is rejected
// with [errors.ErrCodeUnsupportedContent].
func (c Classifier) ClassifyBytes(data []byte, pos canvas.Position) (Result, error) {
	if len(data) == 0 {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "empty content")
	}
	mime := http.DetectContentType(data)
	if mt, _, _ := strings.Cut(mime, ";"); strings.HasPrefix(mt, "image/") {
		uri := "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(data)
		return c.Classify(uri, true, pos), nil
	}
	if strings.HasPrefix(mime, "text/") && utf8.Valid(data) {
		return c.Classify(string(data), false, pos), nil
	}
	return Result{}, errors.New(errors.ErrCodeUnsupportedContent, "cannot place content of type %s", mime)
}

// ClassifyBytes is shorthand for a zero [Classifier].
func ClassifyBytes(data []byte, pos canvas.Position) (Result, error) {
	return Classifier{}.ClassifyBytes(data, pos)
}
