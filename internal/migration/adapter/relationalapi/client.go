package relationalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"workspace-migrator/internal/migration/domain/model"
	"workspace-migrator/internal/migration/domain/repository"
	apperrors "workspace-migrator/internal/shared/errors"
	"workspace-migrator/internal/shared/logger"
)

const defaultTimeout = 30 * time.Second

// Client talks to the relational target store's schema and item APIs. It
// maps the store's "not found" and "already exists" signals onto the shared
// error sentinels so the provisioner's idempotency logic stays
// transport-agnostic.
type Client struct {
	baseURL    string
	tokens     tokenProvider
	httpClient *http.Client
	log        logger.Logger
}

// NewClient creates a target store client with a static API token.
func NewClient(baseURL, token string, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     staticToken(token),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log.WithComponent("relational-api"),
	}
}

// NewClientWithJWT creates a client that mints short-lived tokens from the
// shared secret instead of sending a static one.
func NewClientWithJWT(baseURL, secret string, ttl time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     newJWTMinter(secret, ttl),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log.WithComponent("relational-api"),
	}
}

// apiError is the store's error envelope.
type apiError struct {
	Errors []struct {
		Message    string `json:"message"`
		Extensions struct {
			Code string `json:"code"`
		} `json:"extensions"`
	} `json:"errors"`
}

// dataEnvelope wraps every successful response body.
type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	token, err := c.tokens.Token()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrTargetUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(resp)
	}
	if out == nil {
		return nil
	}

	var envelope dataEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// mapError translates the store's error envelope into typed application
// errors carrying the store's code and HTTP status. The provisioner's
// idempotency logic only inspects the not-found and conflict types.
func (c *Client) mapError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiErr apiError
	code, message := "", ""
	if err := json.Unmarshal(payload, &apiErr); err == nil && len(apiErr.Errors) > 0 {
		code = apiErr.Errors[0].Extensions.Code
		message = apiErr.Errors[0].Message
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	typed := func(errorType apperrors.ErrorType, sentinel error) *apperrors.AppError {
		return apperrors.NewAppError(errorType, message).
			WithCode(code).
			WithCause(sentinel).
			WithComponent("relational-api").
			WithDetail("status", resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound,
		code == "COLLECTION_NOT_FOUND", code == "FIELD_NOT_FOUND", code == "RECORD_NOT_FOUND":
		return typed(apperrors.ErrorTypeNotFound, apperrors.ErrNotFound)
	case code == "RECORD_NOT_UNIQUE", code == "ALREADY_EXISTS",
		strings.Contains(strings.ToLower(message), "already exists"):
		return apperrors.NewConflictError(message).
			WithCode(code).
			WithComponent("relational-api").
			WithDetail("status", resp.StatusCode)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return typed(apperrors.ErrorTypeInfrastructure, apperrors.ErrUnauthorized)
	case resp.StatusCode == http.StatusBadRequest:
		return typed(apperrors.ErrorTypeValidation, apperrors.ErrBadRequest)
	default:
		return apperrors.NewInternalError(fmt.Sprintf("target store error (status %d, code %s): %s", resp.StatusCode, code, message)).
			WithCode(code).
			WithCause(apperrors.ErrInternalServer).
			WithComponent("relational-api")
	}
}

// --- schema endpoints ---

// GetCollection reads the collection, returning a not-found sentinel when
// it does not exist.
func (c *Client) GetCollection(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodGet, "/collections/"+name, nil, nil, nil)
}

// collectionPayload is the create-collection wire shape.
type collectionPayload struct {
	Collection string                 `json:"collection"`
	Meta       map[string]interface{} `json:"meta"`
	Fields     []fieldPayload         `json:"fields"`
}

type fieldPayload struct {
	Field string                 `json:"field"`
	Type  string                 `json:"type"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

func toFieldPayload(spec model.FieldSpec) fieldPayload {
	p := fieldPayload{Field: spec.Field, Type: string(spec.Type)}
	meta := map[string]interface{}{}
	if spec.Interface != "" {
		meta["interface"] = spec.Interface
	}
	if spec.Note != "" {
		meta["note"] = spec.Note
	}
	if len(spec.Choices) > 0 {
		choices := make([]map[string]string, 0, len(spec.Choices))
		for _, choice := range spec.Choices {
			choices = append(choices, map[string]string{"text": choice, "value": choice})
		}
		meta["options"] = map[string]interface{}{"choices": choices}
	}
	if len(meta) > 0 {
		p.Meta = meta
	}
	return p
}

// CreateCollection creates the collection with its full field set.
func (c *Client) CreateCollection(ctx context.Context, schema model.CollectionSchema) error {
	payload := collectionPayload{
		Collection: schema.Collection,
		Meta:       map[string]interface{}{},
	}
	if schema.Note != "" {
		payload.Meta["note"] = schema.Note
	}
	if schema.DisplayField != "" {
		payload.Meta["display_template"] = "{{" + schema.DisplayField + "}}"
	}
	for _, spec := range schema.AllFields() {
		payload.Fields = append(payload.Fields, toFieldPayload(spec))
	}
	return c.do(ctx, http.MethodPost, "/collections", nil, payload, nil)
}

// GetField reads one field of a collection.
func (c *Client) GetField(ctx context.Context, collection, field string) error {
	return c.do(ctx, http.MethodGet, "/fields/"+collection+"/"+field, nil, nil, nil)
}

// CreateField adds one field to a collection.
func (c *Client) CreateField(ctx context.Context, collection string, field model.FieldSpec) error {
	return c.do(ctx, http.MethodPost, "/fields/"+collection, nil, toFieldPayload(field), nil)
}

// GetRelation reads the relation metadata for a foreign-key field.
func (c *Client) GetRelation(ctx context.Context, collection, field string) error {
	return c.do(ctx, http.MethodGet, "/relations/"+collection+"/"+field, nil, nil, nil)
}

// CreateRelation declares foreign-key metadata.
func (c *Client) CreateRelation(ctx context.Context, spec model.RelationSpec) error {
	payload := map[string]string{
		"collection":         spec.Collection,
		"field":              spec.Field,
		"related_collection": spec.RelatedCollection,
	}
	return c.do(ctx, http.MethodPost, "/relations", nil, payload, nil)
}

// --- item endpoints ---

// CreateItems bulk-inserts records in one call.
func (c *Client) CreateItems(ctx context.Context, collection string, records []model.TargetRecord) error {
	return c.do(ctx, http.MethodPost, "/items/"+collection, nil, records, nil)
}

// CreateItem inserts one record.
func (c *Client) CreateItem(ctx context.Context, collection string, record model.TargetRecord) error {
	return c.do(ctx, http.MethodPost, "/items/"+collection, nil, record, nil)
}

// UpdateItem patches selected fields of one record.
func (c *Client) UpdateItem(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	return c.do(ctx, http.MethodPatch, "/items/"+collection+"/"+id, nil, fields, nil)
}

// ListItems reads one page of records. A nil filter value means "field is
// null".
func (c *Client) ListItems(ctx context.Context, collection string, filter map[string]interface{}, limit, page int) ([]map[string]interface{}, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("page", strconv.Itoa(page))
	for field, value := range filter {
		if value == nil {
			query.Set(fmt.Sprintf("filter[%s][_null]", field), "true")
			continue
		}
		query.Set(fmt.Sprintf("filter[%s][_eq]", field), fmt.Sprintf("%v", value))
	}

	var items []map[string]interface{}
	if err := c.do(ctx, http.MethodGet, "/items/"+collection, query, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Aggregate runs one aggregate-count query, plus sums for the given fields.
func (c *Client) Aggregate(ctx context.Context, collection string, sumFields []string) (repository.AggregateResult, error) {
	query := url.Values{}
	query.Set("aggregate[count]", "*")
	for _, field := range sumFields {
		query.Add("aggregate[sum][]", field)
	}

	var rows []struct {
		Count flexCount          `json:"count"`
		Sum   map[string]float64 `json:"sum"`
	}
	if err := c.do(ctx, http.MethodGet, "/items/"+collection, query, nil, &rows); err != nil {
		return repository.AggregateResult{}, err
	}

	result := repository.AggregateResult{Sums: make(map[string]float64)}
	if len(rows) == 0 {
		return result, nil
	}
	result.Count = int(rows[0].Count)
	for field, sum := range rows[0].Sum {
		result.Sums[field] = sum
	}
	return result, nil
}

// flexCount tolerates the store returning aggregate counts as either JSON
// numbers or strings.
type flexCount int64

func (f *flexCount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parse aggregate count %q: %w", s, err)
	}
	*f = flexCount(n)
	return nil
}
