package evaluator

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/NordCoder/CloudCorrect/internal/probe"
)

const (
	TypePing    = "PING"
	TypeHTTP200 = "HTTP_200"
)

type ICMPProber interface {
	Ping(ctx context.Context, target string) (probe.PingResult, error)
}

type HTTPProber interface {
	Get(ctx context.Context, url string) (probe.HTTPResult, error)
}

type pingParams struct {
	Target string `param:"target" validate:"required"`
}

type httpParams struct {
	URL string `param:"url" validate:"required"`
}

// Network probes ignore credentials and region.
type networkHandler struct {
	icmp ICMPProber
	http HTTPProber
}

func (h networkHandler) ping(ctx context.Context, req Request) (check.Result, error) {
	p, err := decode[pingParams](req.Params)
	if err != nil {
		return check.Result{}, err
	}
	expected := fmt.Sprintf("Ping %s responds", p.Target)

	res, err := h.icmp.Ping(ctx, p.Target)
	if err != nil || res.Received == 0 {
		reason := "Request timed out or host unreachable"
		if err != nil {
			reason += ": " + err.Error()
		}
		return fail(expected, "No response", reason, map[string]any{"target": p.Target}), nil
	}

	latency := float64(res.RTT.Microseconds()) / 1000
	return pass(expected,
		fmt.Sprintf("Response in %sms", strconv.FormatFloat(latency, 'f', -1, 64)),
		"ICMP echo received",
		map[string]any{"target": p.Target, "latency": latency, "address": nilIfEmpty(res.Addr)}), nil
}

func (h networkHandler) http200(ctx context.Context, req Request) (check.Result, error) {
	p, err := decode[httpParams](req.Params)
	if err != nil {
		return check.Result{}, err
	}
	expected := fmt.Sprintf("HTTP GET %s returns 200 OK", p.URL)

	res, err := h.http.Get(ctx, p.URL)
	latency := res.Latency.Milliseconds()
	if err != nil {
		return fail(expected, "Request failed", err.Error(), map[string]any{
			"url":     p.URL,
			"error":   err.Error(),
			"latency": latency,
		}), nil
	}

	data := map[string]any{
		"url":         p.URL,
		"status":      res.Status,
		"latency":     latency,
		"contentType": nilIfEmpty(res.ContentType),
		"server":      nilIfEmpty(res.Server),
	}
	if res.Status == http.StatusOK {
		return pass(expected, fmt.Sprintf("Status %d (%dms)", res.Status, latency),
			"Service returned healthy status", data), nil
	}
	return fail(expected, fmt.Sprintf("Status %d (%dms)", res.Status, latency),
		fmt.Sprintf("Service returned %d", res.Status), data), nil
}
