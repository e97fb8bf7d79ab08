package docxtract

import (
	"github.com/sirupsen/logrus"

	"github.com/tsawler/docxtract/ocr"
)

// options holds the settings an Extractor passes to the packages it calls.
type options struct {
	logger        logrus.FieldLogger
	convertImages bool
	recognizer    ocr.Recognizer
}

// defaultOptions returns the default options.
func defaultOptions() options {
	return options{}
}
