package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
	Out   io.Writer
	Err   io.Writer
}

// Success outputs a successful result. human is printed in the default
// mode, quiet (typically an id) in quiet mode and data as JSON.
func (f *OutputFormatter) Success(data any, human, quiet string) error {
	switch {
	case f.JSON:
		return json.NewEncoder(f.Out).Encode(map[string]any{
			"success": true,
			"data":    data,
		})
	case f.Quiet:
		if quiet != "" {
			_, err := fmt.Fprintln(f.Out, quiet)
			return err
		}
		return nil
	default:
		_, err := fmt.Fprintln(f.Out, human)
		return err
	}
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(f.Out).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	fmt.Fprintf(f.Err, "❌ Error: %s\n", message)
	if suggestion != "" {
		fmt.Fprintf(f.Err, "💡 Suggestion: %s\n", suggestion)
	}
	return nil
}
