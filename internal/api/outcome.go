package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mmcdole/mcc/internal/domain"
)

// Failures are classified in this order:
//  1. no HTTP response             -> InternalError{Connection}
//  2. 2xx that does not decode      -> InternalError{Deserialization}
//  3. non-2xx status                -> ResponseError{StatusCode}
//  4. anything else on our side     -> InternalError{Generic}
// Steps 1, 3 and 4 happen in doRequest; step 2 in decode.

// errMissingField marks a decoded payload that lacks a required field
var errMissingField = errors.New("missing required field")

// validator is implemented by DTOs with required fields. encoding/json
// accepts absent fields silently, so the check is explicit.
type validator interface {
	validate() error
}

func connectionError(err error) error {
	return &domain.InternalError{Kind: domain.InternalConnection, Err: err}
}

func genericError(err error) error {
	return &domain.InternalError{Kind: domain.InternalGeneric, Err: err}
}

func deserializationError(err error) error {
	return &domain.InternalError{Kind: domain.InternalDeserialization, Err: err}
}

// decode unmarshals a successful response body. A mismatch means the server
// schema changed underneath us, which is logged loudly.
func (c *Client) decode(path string, data []byte, out any) error {
	err := json.Unmarshal(data, out)
	if err == nil {
		if v, ok := out.(validator); ok {
			err = v.validate()
		}
	}
	if err != nil {
		c.logger.Error("response does not match expected schema",
			"path", path,
			"type", fmt.Sprintf("%T", out),
			"error", err,
		)
		return c.fail(deserializationError(fmt.Errorf("failed to parse response: %w", err)))
	}
	return nil
}

func requireField(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w %q", errMissingField, name)
	}
	return nil
}
