package translator

import "context"

// MissingMarker is written in place of a translation when a base string is
// longer than the configured maximum. It is deliberately loud and easy to
// grep for in resource files.
const MissingMarker = "__MISSING_TRANSLATION__"

// Provider is the machine-translation capability injected into the driver.
// Implementations translate a single string into the target language.
type Provider interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}
