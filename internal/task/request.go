package task

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/loykin/apicheck/internal/common"
	"github.com/loykin/apicheck/internal/constants"
	"github.com/loykin/apicheck/internal/util"
)

// Execute issues a GET for the target with the shared client and captures the
// transport outcome. It never returns an error: transport and body read
// failures are recorded on the Result so one target cannot abort a run.
func Execute(ctx context.Context, client *resty.Client, t Target) Result {
	logger := common.GetLogger().WithComponent("task").WithEnvironment(t.Environment).WithRequest(constants.DefaultMethod, t.URL)

	res := Result{
		Environment: t.Environment,
		URL:         t.URL,
		State:       ExtractState(t.URL),
	}

	start := time.Now()
	resp, err := client.R().SetContext(ctx).Get(t.URL)
	res.Duration = time.Since(start)

	if resp != nil && resp.RawResponse != nil {
		code := resp.StatusCode()
		res.StatusCode = &code
	}
	if err != nil {
		msg := err.Error()
		var uerr *url.Error
		if res.StatusCode != nil && !errors.As(err, &uerr) {
			// a response arrived but its body could not be read;
			// redirect policy failures surface as *url.Error instead
			msg = fmt.Sprintf("Failed to read response body: %v", err)
			res.Preview = fmt.Sprintf("Error reading body: %v", err)
		}
		res.ErrorMessage = &msg
		logger.Warn("request failed", "error", err, "duration", res.Duration)
		return res
	}

	res.Body = string(resp.Body())
	res.Preview = util.Prefix(res.Body, constants.BodyPreviewLength)
	logger.Debug("received response", "status_code", *res.StatusCode, "response_size", len(resp.Body()), "duration", res.Duration)
	return res
}
