package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"orderops/internal/core/application/usecases/commands"
)

// flexInt accepts a JSON number or a string holding one, as the admin UI
// sends select values as strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a number or numeric string, got %s", string(data))
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	*f = flexInt(n)
	return nil
}

type (
	idsRequest struct {
		IDs []string `json:"ids"`
	}

	targetRequest struct {
		IDs    []string `json:"ids"`
		Target string   `json:"target"`
	}

	stockWaitRequest struct {
		IDs   []string `json:"ids"`
		Day   flexInt  `json:"day"`
		Month flexInt  `json:"month"`
	}

	commandParams struct {
		Target string  `json:"target"`
		Day    flexInt `json:"day"`
		Month  flexInt `json:"month"`
	}

	commandRequest struct {
		Command string        `json:"command"`
		IDs     []string      `json:"ids"`
		Params  commandParams `json:"params"`
	}
)

type (
	failureResponse struct {
		ID      string `json:"id"`
		Reason  string `json:"reason"`
		Message string `json:"message"`
	}

	commandResponse struct {
		Command   string            `json:"command"`
		Succeeded []string          `json:"succeeded"`
		Failed    []failureResponse `json:"failed"`
	}

	errorResponse struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
)

func toCommandResponse(command string, result commands.BulkResult) commandResponse {
	resp := commandResponse{
		Command:   command,
		Succeeded: make([]string, 0, len(result.Succeeded)),
		Failed:    make([]failureResponse, 0, len(result.Failed)),
	}
	for _, id := range result.Succeeded {
		resp.Succeeded = append(resp.Succeeded, id.String())
	}
	for _, f := range result.Failed {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		resp.Failed = append(resp.Failed, failureResponse{
			ID:      f.ID.String(),
			Reason:  string(f.Reason),
			Message: msg,
		})
	}
	return resp
}
