package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/dataset-prep/internal/dataset"
	"github.com/sells-group/dataset-prep/internal/jsonl"
	"github.com/sells-group/dataset-prep/internal/record"
)

type createRepoRequest struct {
	ID      string `json:"id"`
	Private bool   `json:"private"`
}

type createRepoResponse struct {
	URL string `json:"url"`
}

// Publish creates the repository if absent and uploads every split as
// line-delimited JSON. The credential is validated before any request.
func (c *httpClient) Publish(ctx context.Context, repoID string, ds *dataset.Dataset, opts PublishOptions) (string, error) {
	if repoID == "" {
		return "", eris.New("hub: empty repo id")
	}
	if opts.Token == "" {
		return "", eris.New("hub: upload credential is required")
	}
	if ds == nil || ds.Len() == 0 {
		return "", eris.Errorf("hub: nothing to publish to %s", repoID)
	}

	canonical, err := c.createRepo(ctx, repoID, opts)
	if err != nil {
		return "", err
	}

	for _, split := range ds.Names() {
		records, _ := ds.Split(split)
		if err := c.uploadSplit(ctx, repoID, split, records, opts.Token); err != nil {
			return "", err
		}
		zap.L().Info("hub: uploaded split",
			zap.String("repo", repoID),
			zap.String("split", split),
			zap.Int("records", len(records)),
		)
	}
	return canonical, nil
}

func (c *httpClient) createRepo(ctx context.Context, repoID string, opts PublishOptions) (string, error) {
	body, err := json.Marshal(createRepoRequest{ID: repoID, Private: opts.Private})
	if err != nil {
		return "", eris.Wrap(err, "hub: marshal create request")
	}

	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/api/repos", bytes.NewReader(body), "application/json", opts.Token)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusConflict:
		// Conflict means the repo already exists; publishing into an
		// existing repo is allowed.
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", eris.Errorf("hub: create repo %s: credential rejected (status %d)", repoID, resp.StatusCode)
	default:
		return "", eris.Errorf("hub: create repo %s: unexpected status %d", repoID, resp.StatusCode)
	}

	var created createRepoResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err == nil && created.URL != "" {
		return created.URL, nil
	}
	return fmt.Sprintf("%s/datasets/%s", c.baseURL, repoID), nil
}

func (c *httpClient) uploadSplit(ctx context.Context, repoID, split string, records []*record.Record, token string) error {
	var buf bytes.Buffer
	if err := jsonl.Write(&buf, records); err != nil {
		return err
	}

	uploadURL := fmt.Sprintf("%s/api/datasets/%s/%s", c.baseURL, escapeRepoID(repoID), split)
	resp, err := c.do(ctx, http.MethodPut, uploadURL, &buf, "application/x-ndjson", token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return eris.Errorf("hub: upload split %s of %s: unexpected status %d", split, repoID, resp.StatusCode)
	}
	return nil
}
