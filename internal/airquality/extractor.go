package airquality

import (
	"context"
	"log/slog"
	"time"

	"github.com/luisaqm/calidad-aire/internal/sink"
)

// Extractor is the pipeline's fetch collaborator: it pulls the current
// feed and stages it as a raw JSON snapshot. Upstream trouble (bad status,
// unreachable API) is "no valid data this run", not an error; a failure to
// stage the snapshot is a SinkError because the local filesystem itself is
// broken.
type Extractor struct {
	Client *Client
	RawDir string
	Prefix string
	Log    *slog.Logger
	Now    func() time.Time
}

// Fetch returns the path of a freshly written raw snapshot, or ok=false
// when upstream produced nothing usable.
func (e *Extractor) Fetch(ctx context.Context) (string, bool, error) {
	payload, ok, err := e.Client.FetchCity(ctx)
	if err != nil {
		e.Log.Warn("city feed unreachable", "error", err)
		return "", false, nil
	}
	if !ok {
		return "", false, nil
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	path, err := SaveRaw(payload, e.RawDir, e.Prefix, now())
	if err != nil {
		return "", false, &sink.SinkError{Op: "stage raw", Err: err}
	}

	e.Log.Info("raw snapshot staged", "path", path)
	return path, true, nil
}
