package port

import (
	"context"
	"io"

	"filegate/internal/core/domain"
)

// Scanner is an interface to run one malware scan round-trip. It never
// returns an error: any failure to obtain a verdict is folded into the
// degraded status so the caller cannot accidentally propagate a scanner
// outage as a fatal upload failure.
type Scanner interface {
	Scan(ctx context.Context, r io.Reader) domain.ScanVerdict
}
