package ports

import "go.trai.ch/trier/internal/core/domain"

// Reporter is the host's diagnostic surface. Report never fails and preserves call order.
//
//go:generate go run go.uber.org/mock/mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	Report(d domain.Diagnostic)
}
