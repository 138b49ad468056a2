package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/dataset-prep/internal/dataset"
	"github.com/sells-group/dataset-prep/internal/jsonl"
	"github.com/sells-group/dataset-prep/internal/record"
)

// manifest is the hub's split listing for one dataset.
type manifest struct {
	Splits map[string]string `json:"splits"`
}

// Load fetches the split manifest and then every split's records.
func (c *httpClient) Load(ctx context.Context, repoID string) (*dataset.Dataset, error) {
	if repoID == "" {
		return nil, eris.New("hub: empty repo id")
	}

	manifestURL := fmt.Sprintf("%s/api/datasets/%s", c.baseURL, escapeRepoID(repoID))
	resp, err := c.do(ctx, http.MethodGet, manifestURL, nil, "", "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, eris.Errorf("hub: dataset %s not found", repoID)
	case resp.StatusCode != http.StatusOK:
		return nil, eris.Errorf("hub: load %s: unexpected status %d", repoID, resp.StatusCode)
	}

	var m manifest
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, eris.Wrapf(err, "hub: decode manifest for %s", repoID)
	}
	if len(m.Splits) == 0 {
		return nil, eris.Errorf("hub: dataset %s has no splits", repoID)
	}

	ds := dataset.New()
	for split, ref := range m.Splits {
		records, err := c.loadSplit(ctx, repoID, split, ref)
		if err != nil {
			return nil, err
		}
		ds.SetSplit(split, records)
		zap.L().Info("hub: loaded split",
			zap.String("repo", repoID),
			zap.String("split", split),
			zap.Int("records", len(records)),
		)
	}
	return ds, nil
}

func (c *httpClient) loadSplit(ctx context.Context, repoID, split, ref string) ([]*record.Record, error) {
	resp, err := c.do(ctx, http.MethodGet, c.resolve(ref), nil, "", "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("hub: fetch split %s of %s: unexpected status %d", split, repoID, resp.StatusCode)
	}

	records, skipped, err := jsonl.Read(resp.Body, fmt.Sprintf("%s/%s", repoID, split))
	if err != nil {
		return nil, err
	}
	// Hub data is expected to be well-formed; a bad line here means a
	// truncated or corrupt download, not an operator input problem.
	if skipped > 0 {
		return nil, eris.Errorf("hub: split %s of %s had %d unparseable lines", split, repoID, skipped)
	}
	return records, nil
}

// escapeRepoID escapes each path segment of an "<owner>/<name>" repo
// id, keeping the separator literal.
func escapeRepoID(repoID string) string {
	parts := strings.Split(repoID, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
