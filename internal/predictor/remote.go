package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteModel calls an HTTP inference endpoint.
type RemoteModel struct {
	url    string
	client *http.Client
}

type remoteRequest struct {
	FeatureNames []string           `json:"feature_names"`
	Features     map[string]float64 `json:"features"`
	Vector       []float64          `json:"vector"`
}

type remoteResponse struct {
	Prediction *float64 `json:"prediction"`
	Error      string   `json:"error,omitempty"`
}

// NewRemoteModel uses client, or a client with a 10s timeout when nil.
func NewRemoteModel(url string, client *http.Client) *RemoteModel {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemoteModel{url: url, client: client}
}

func (m *RemoteModel) Predict(ctx context.Context, f Features) (float64, error) {
	body, err := json.Marshal(remoteRequest{
		FeatureNames: FeatureNames,
		Features:     f.Named(),
		Vector:       f.Vector(),
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("read inference response: %w", err)
	}

	var out remoteResponse
	decodeErr := json.Unmarshal(raw, &out)
	if resp.StatusCode/100 != 2 {
		if decodeErr == nil && out.Error != "" {
			return 0, fmt.Errorf("inference service returned %d: %s", resp.StatusCode, out.Error)
		}
		return 0, fmt.Errorf("inference service returned %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return 0, fmt.Errorf("decode inference response: %w", decodeErr)
	}
	if out.Prediction == nil {
		return 0, fmt.Errorf("inference response has no prediction")
	}
	return *out.Prediction, nil
}
