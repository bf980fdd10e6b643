package ephemeris

import (
	"context"
	"fmt"
	"time"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/services/astro"
	xhttp "AstroChart/pkg/http"
)

// Remote delegates ephemeris math to a Swiss Ephemeris sidecar over HTTP.
// The sidecar owns the precision data files; this client only marshals calls.
type Remote struct {
	baseURL  string
	client   *xhttp.Client
	dataPath string
}

// RemoteConfig holds the sidecar connection settings.
type RemoteConfig struct {
	BaseURL  string
	Timeout  time.Duration
	DataPath string
}

// NewRemote builds the sidecar client.
func NewRemote(cfg RemoteConfig) (*Remote, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("ephemeris sidecar url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Remote{
		baseURL:  cfg.BaseURL,
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
		dataPath: cfg.DataPath,
	}, nil
}

func (r *Remote) Backend() string { return "remote" }

// Configure pushes the data path to the sidecar. Called once at startup; the
// sidecar falls back to its built-in model when the path is empty or invalid,
// which is not an error.
func (r *Remote) Configure(ctx context.Context) error {
	if r.dataPath == "" {
		return nil
	}
	if err := r.postJSON(ctx, "/configure", map[string]string{"data_path": r.dataPath}, nil); err != nil {
		return fmt.Errorf("configure sidecar: %w", err)
	}
	return nil
}

func (r *Remote) JulianDay(ctx context.Context, year, month, day int, hourUT float64) (float64, error) {
	var resp struct {
		JD float64 `json:"jd"`
	}
	req := map[string]interface{}{"year": year, "month": month, "day": day, "hour": hourUT}
	if err := r.postJSON(ctx, "/julian_day", req, &resp); err != nil {
		return 0, fmt.Errorf("julian day: %w", err)
	}
	return resp.JD, nil
}

func (r *Remote) Position(ctx context.Context, jd float64, body astro.Body) (models.BodyPosition, error) {
	var resp models.BodyPosition
	req := map[string]interface{}{"jd": jd, "body": int(body)}
	if err := r.postJSON(ctx, "/position", req, &resp); err != nil {
		return models.BodyPosition{}, fmt.Errorf("position body=%d: %w", body, err)
	}
	return resp, nil
}

func (r *Remote) Houses(ctx context.Context, jd, lat, lon float64, system byte) (models.HouseFrame, error) {
	var resp models.HouseFrame
	req := map[string]interface{}{"jd": jd, "latitude": lat, "longitude": lon, "system": string(system)}
	if err := r.postJSON(ctx, "/houses", req, &resp); err != nil {
		return models.HouseFrame{}, fmt.Errorf("houses: %w", err)
	}
	if len(resp.Cusps) != 12 {
		return models.HouseFrame{}, fmt.Errorf("houses: sidecar returned %d cusps", len(resp.Cusps))
	}
	return resp, nil
}

func (r *Remote) postJSON(ctx context.Context, path string, payload, dest interface{}) error {
	return r.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    r.baseURL + path,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}, dest)
}
