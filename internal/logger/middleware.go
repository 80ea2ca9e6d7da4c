// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	forwardedHostHeaderKey = "x-forwarded-host"
	forwardedForHeaderKey  = "x-forwarded-for"
	requestIDHeaderName    = "x-request-id"

	IncomingRequestMessage  = "incoming request"
	RequestCompletedMessage = "request completed"
)

// http is the struct of the log formatter.
type http struct {
	Request  *request  `json:"request,omitempty"`
	Response *response `json:"response,omitempty"`
}

type userAgent struct {
	Original string `json:"original,omitempty"`
}

// request contains the items of request info log.
type request struct {
	Method    string    `json:"method,omitempty"`
	UserAgent userAgent `json:"userAgent"`
}

type responseBody struct {
	Bytes int `json:"bytes,omitempty"`
}

// response contains the items of response info log.
type response struct {
	StatusCode int          `json:"statusCode,omitempty"`
	Body       responseBody `json:"body"`
}

// host has the host information.
type host struct {
	Hostname      string `json:"hostname,omitempty"`
	ForwardedHost string `json:"forwardedHost,omitempty"`
	IP            string `json:"ip,omitempty"`
}

// url info
type url struct {
	Path string `json:"path,omitempty"`
}

func removePort(host string) string {
	return strings.Split(host, ":")[0]
}

// GetReqID returns the request id sent by the caller or generates a new one.
func GetReqID(fiberCtx *fiber.Ctx) string {
	if requestID := fiberCtx.Get(requestIDHeaderName, ""); requestID != "" {
		return requestID
	}
	// Generate a random uuid string. e.g. 16c9c1f2-c001-40d3-bbfe-48857367e7b5
	requestID, err := uuid.NewRandom()
	if err != nil {
		panic(fmt.Errorf("error generating request id: %w", err))
	}
	return requestID.String()
}

func requestLog(fiberCtx *fiber.Ctx) *request {
	return &request{
		Method: fiberCtx.Method(),
		UserAgent: userAgent{
			Original: fiberCtx.Get("user-agent", ""),
		},
	}
}

func hostLog(fiberCtx *fiber.Ctx) host {
	return host{
		ForwardedHost: fiberCtx.Get(forwardedHostHeaderKey, ""),
		Hostname:      removePort(string(fiberCtx.Request().Host())),
		IP:            fiberCtx.Get(forwardedForHeaderKey, ""),
	}
}

func logIncomingRequest(fiberCtx *fiber.Ctx, logger Logger) {
	logger.
		WithName("incoming_request").
		Trace(IncomingRequestMessage,
			"http", http{Request: requestLog(fiberCtx)},
			"url", url{Path: string(fiberCtx.Request().URI().RequestURI())},
			"host", hostLog(fiberCtx),
		)
}

func logRequestCompleted(fiberCtx *fiber.Ctx, handlerErr error, logger Logger, startTime time.Time) {
	statusCode := fiberCtx.Response().StatusCode()
	bodySize := len(fiberCtx.Response().Body())
	if fiberErr, ok := handlerErr.(*fiber.Error); handlerErr != nil && ok {
		statusCode = fiberErr.Code
		bodySize = len(fiberErr.Error())
	}

	logger.
		WithName("request_completed").
		Info(RequestCompletedMessage,
			"http", http{
				Request: requestLog(fiberCtx),
				Response: &response{
					StatusCode: statusCode,
					Body: responseBody{
						Bytes: bodySize,
					},
				},
			},
			"url", url{Path: string(fiberCtx.Request().URI().RequestURI())},
			"host", hostLog(fiberCtx),
			"responseTime", float64(time.Since(startTime).Milliseconds()),
		)
}

// RequestMiddlewareLogger is a fiber middleware to log all requests
// It logs the incoming request and when request is completed, adding latency of the request
func RequestMiddlewareLogger(logger Logger, excludedPrefix []string) func(*fiber.Ctx) error {
	return func(fiberCtx *fiber.Ctx) error {
		requestURI := string(fiberCtx.Request().URI().RequestURI())
		for _, prefix := range excludedPrefix {
			if strings.HasPrefix(requestURI, prefix) {
				return fiberCtx.Next()
			}
		}

		start := time.Now()

		requestID := GetReqID(fiberCtx)
		loggerWithReqID := logger.WithName("request").WithName(requestID)

		ctx := WithContext(fiberCtx.UserContext(), loggerWithReqID)
		fiberCtx.SetUserContext(ctx)

		logIncomingRequest(fiberCtx, loggerWithReqID)
		err := fiberCtx.Next()
		logRequestCompleted(fiberCtx, err, loggerWithReqID, start)

		return err
	}
}
