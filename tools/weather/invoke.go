package weather

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/weathermcp/encoding/json"
	"github.com/effective-security/weathermcp/pkg/metricskey"
	"github.com/effective-security/weathermcp/tools"
	"github.com/effective-security/weathermcp/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// result of a tool run
type result interface {
	fmt.Stringer
	IsEmpty() bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report the argument names as the clients send them
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateArgs returns the first invalid argument in a readable form
func validateArgs(args any) error {
	err := validate.Struct(args)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.WithStack(err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return errors.Newf("invalid argument %s: required", fe.Field())
	case "min":
		return errors.Newf("invalid argument %s: must be at least %s", fe.Field(), fe.Param())
	}
	return errors.Newf("invalid argument %s: failed on %s", fe.Field(), fe.Tag())
}

// invoke runs the tool with lifecycle callbacks and metrics.
// Failures are rendered as text prefixed with errPrefix, it never fails.
func invoke[I any, O result](
	ctx context.Context,
	tool tools.ITool,
	cb tools.Callback,
	args *I,
	errPrefix string,
	run func(context.Context, *I) (O, error),
) string {
	if args == nil {
		args = new(I)
	}
	name := tool.Name()
	ctx = tools.WithCallID(ctx, uuid.NewString())
	input := utils.ToJSON(args)

	cb.OnToolStart(ctx, tool, input)
	defer metricskey.PerfToolCall.MeasureSince(time.Now(), name)

	err := validateArgs(args)
	if err == nil {
		var res O
		res, err = run(ctx, args)
		if err == nil {
			out := res.String()
			if res.IsEmpty() {
				metricskey.StatsToolCallsEmpty.IncrCounter(1, name)
			} else {
				metricskey.StatsToolCallsSucceeded.IncrCounter(1, name)
			}
			cb.OnToolEnd(ctx, tool, input, out)
			return out
		}
	}

	metricskey.StatsToolCallsFailed.IncrCounter(1, name)
	cb.OnToolError(ctx, tool, input, err)
	return errPrefix + err.Error()
}

// decode parses the Call input into the tool arguments
func decode[I any](input string) (*I, error) {
	args := new(I)
	if err := json.NewEncoder().Unmarshal([]byte(input), args); err != nil {
		return nil, errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	return args, nil
}
