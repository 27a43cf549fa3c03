// Package services defines the [Classifier] interface for username lookups and implements it on top of Gemini.
//
// # Classifier Interface
//
// The queue processor depends only on [Classifier], so tests substitute deterministic doubles without network access.
//
// # Gemini Implementation
//
// [GeminiClassifier] sends one generateContent request per username with Google Search grounding enabled
// and a JSON response schema with the fields pageStatus (OPEN/CLOSED), notes and profileUrl.
// The target site is never fetched directly; the answer comes from the provider's search grounding.
//
// Outbound requests go through a [rate.Limiter] so a misconfigured queue interval cannot exceed the configured request rate.
//
// # Error Handling
//
// Only failures that prevent a request from being attempted are returned:
//   - [shared.ErrMissingCredentials] : no API key configured
//   - [shared.ErrAPIRequest] : the limiter wait was cancelled
//
// Every other outcome resolves to a [models.ClassifierResult]:
//   - remote error or unparsable JSON : PageUnknown with [NoteCheckError]
//   - empty response text : PageUnknown with [NoteNoResponse]
//   - pageStatus "OPEN" : PageOpen, anything else : PageClosed
package services
