// package services defines interface Classifier for deciding whether a username has a public profile page
//
// Gemini (via google.golang.org/genai)
package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/igx/internal/models"
)

// Notes attached to inconclusive results. The remote call itself did not fail, so these are not errors.
const (
	NoteNoResponse = "No response from AI"
	NoteCheckError = "Error during AI check"
)

// Classifier decides whether a profile page exists for a username.
type Classifier interface {
	// Classify asks the backing service about a single username.
	//
	// Remote failures and unusable answers resolve to a result with [models.PageUnknown].
	// A returned error means the call could not be attempted at all (e.g. missing credentials).
	Classify(ctx context.Context, username string) (models.ClassifierResult, error)

	// Name returns the name of the backing service (e.g., "Gemini")
	Name() string
}

// LoggerSetter is implemented by classifiers whose logging can be redirected after construction.
type LoggerSetter interface {
	SetLogger(l *log.Logger)
}

// ClassifierFunc adapts a plain function to [Classifier].
type ClassifierFunc func(ctx context.Context, username string) (models.ClassifierResult, error)

func (f ClassifierFunc) Classify(ctx context.Context, username string) (models.ClassifierResult, error) {
	return f(ctx, username)
}

func (f ClassifierFunc) Name() string { return "func" }
