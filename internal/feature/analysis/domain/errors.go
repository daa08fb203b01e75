// Package domain defines domain-level errors for the analysis feature.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors for the capture → inference → parse pipeline.
// Transport and format failures collapse into one generic message at the UI boundary,
// but stay distinguishable here for logging.
var (
	// ErrConfiguration indicates that a required credential is missing.
	// It is fatal and never retried.
	ErrConfiguration = errors.New("inference client is not configured")

	// ErrAnalysisFailed is the single opaque error returned for any network or remote API failure.
	ErrAnalysisFailed = errors.New("analysis failed")

	// ErrFormat is the parent of every response-format failure.
	ErrFormat = errors.New("unexpected response format")

	// ErrNoStructuredData indicates that no JSON object was found in the model output.
	ErrNoStructuredData = fmt.Errorf("%w: no structured data in response", ErrFormat)

	// ErrMalformedResponse indicates that the JSON payload does not have the expected shape.
	ErrMalformedResponse = fmt.Errorf("%w: malformed response", ErrFormat)

	// ErrEmptyImage is returned when an analysis is requested without image data.
	ErrEmptyImage = errors.New("image data is empty")

	// ErrImageTooLarge is returned when the image exceeds the upload limit.
	ErrImageTooLarge = errors.New("image size exceeds maximum")
)

// UserMessage is the single generic message shown for any analysis failure,
// regardless of whether the transport or the response format failed.
const UserMessage = "Failed to analyze the image. Please try again."
