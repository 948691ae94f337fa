package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// ErrTooManyAttempts is returned when a prompt never receives valid input.
var ErrTooManyAttempts = errors.New("too many invalid attempts")

// NonBlockingReader provides context-aware line input that can be interrupted.
type NonBlockingReader struct {
	reader      *bufio.Reader
	readingLock sync.Mutex
}

// NewNonBlockingReader creates a new non-blocking reader.
func NewNonBlockingReader(reader io.Reader) *NonBlockingReader {
	return &NonBlockingReader{
		reader: bufio.NewReader(reader),
	}
}

// ReadLine reads one trimmed line. A final line without a newline is returned
// as-is; io.EOF is only returned once input is exhausted.
func (r *NonBlockingReader) ReadLine(ctx context.Context) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.readingLock.Lock()
		defer r.readingLock.Unlock()

		value, err := r.reader.ReadString('\n')
		if errors.Is(err, io.EOF) && value != "" {
			err = nil
		}
		resultCh <- result{value: value, err: err}
	}()

	// The reading goroutine keeps running until the read completes even if
	// the caller gives up.
	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		return strings.TrimSpace(res.value), res.err
	}
}

// PromptAmount asks for a positive amount until one is entered, giving up
// after maxAttempts invalid answers. Commas and a leading $ are accepted.
func PromptAmount(ctx context.Context, in *NonBlockingReader, out io.Writer, prompt string, maxAttempts int) (decimal.Decimal, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		_, _ = fmt.Fprint(out, FormatPrompt(prompt))

		line, err := in.ReadLine(ctx)
		if err != nil {
			return decimal.Zero, err
		}

		amount, err := ParseAmount(line)
		if err == nil {
			return amount, nil
		}
		_, _ = fmt.Fprintln(out, FormatError(err.Error()))
	}
	return decimal.Zero, fmt.Errorf("%w: expected a positive amount", ErrTooManyAttempts)
}

// ParseAmount parses user-typed money such as "4000", "$4,000.50" or "12.5".
// Only amounts greater than zero are accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Zero, errors.New("please enter an amount")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be greater than zero, got %s", amount)
	}
	return amount, nil
}
