// Package suggestions serves the suggestion ranker behind an API Gateway
// proxy integration.
package suggestions

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"informatch/internal/middleware"
	"informatch/internal/models"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Suggester computes suggestions for a user.
type Suggester interface {
	Suggest(ctx context.Context, userID uuid.UUID) (*models.SuggestionResult, error)
}

// Verifier validates bearer tokens.
type Verifier interface {
	Verify(token string) (*middleware.Claims, error)
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
	"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
}

// Handler answers suggestion requests.
type Handler struct {
	suggester Suggester
	verifier  Verifier
	rdb       *redis.Client
}

// NewHandler builds a Handler. rdb is only used for token revocation and
// may be nil.
func NewHandler(suggester Suggester, verifier Verifier, rdb *redis.Client) *Handler {
	return &Handler{suggester: suggester, verifier: verifier, rdb: rdb}
}

// Handle is the lambda entry point.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch req.HTTPMethod {
	case http.MethodOptions:
		return response(http.StatusNoContent, nil)
	case http.MethodGet, http.MethodPost, "":
	default:
		return errorResponse(http.StatusMethodNotAllowed, "Method not allowed")
	}

	token := middleware.BearerToken(header(req, "Authorization"))
	if token == "" {
		return errorResponse(http.StatusUnauthorized, "Authorization required")
	}
	claims, err := h.verifier.Verify(token)
	if err != nil {
		if errors.Is(err, middleware.ErrInvalidUserID) {
			return errorResponse(http.StatusUnauthorized, "Invalid user ID in token")
		}
		return errorResponse(http.StatusUnauthorized, "Invalid or expired token")
	}
	if middleware.IsRevoked(ctx, h.rdb, claims) {
		return errorResponse(http.StatusUnauthorized, "Token has been revoked")
	}
	userID, err := claims.UserID()
	if err != nil {
		return errorResponse(http.StatusUnauthorized, "Invalid user ID in token")
	}

	ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
	result, err := h.suggester.Suggest(ctx, userID)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "suggestion computation failed",
			slog.String("request_id", req.RequestContext.RequestID),
			slog.String("error", err.Error()))
		return errorResponse(http.StatusInternalServerError, "Failed to compute suggestions")
	}
	return response(http.StatusOK, result)
}

// header looks a header up case-insensitively; API Gateway preserves the
// client's casing.
func header(req events.APIGatewayProxyRequest, name string) string {
	for k, v := range req.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	for k, v := range req.MultiValueHeaders {
		if strings.EqualFold(k, name) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func response(status int, body any) (events.APIGatewayProxyResponse, error) {
	headers := make(map[string]string, len(corsHeaders)+1)
	for k, v := range corsHeaders {
		headers[k] = v
	}
	resp := events.APIGatewayProxyResponse{StatusCode: status, Headers: headers}
	if body == nil {
		return resp, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	headers["Content-Type"] = "application/json"
	resp.Body = string(b)
	return resp, nil
}

func errorResponse(status int, msg string) (events.APIGatewayProxyResponse, error) {
	return response(status, models.ErrorResponse{Error: msg})
}
