package dashboard

import "context"

type Service struct{ store *Store }

func NewService(store *Store) *Service { return &Service{store: store} }

// Summarize runs the counters one by one; the numbers are advisory and a
// point-in-time snapshot, so they do not share a transaction.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	var (
		sum Summary
		err error
	)
	if sum.AssetsTotal, err = s.store.AssetsTotal(ctx); err != nil {
		return nil, err
	}
	if sum.AssetsByStatus, err = s.store.AssetsByStatus(ctx); err != nil {
		return nil, err
	}
	if sum.AssetsBySection, err = s.store.AssetsBySection(ctx); err != nil {
		return nil, err
	}
	if sum.SectionsTotal, err = s.store.SectionsTotal(ctx); err != nil {
		return nil, err
	}
	if sum.LocationsTotal, err = s.store.LocationsTotal(ctx); err != nil {
		return nil, err
	}
	if sum.UsersTotal, err = s.store.UsersTotal(ctx); err != nil {
		return nil, err
	}
	if sum.LicensesTotal, err = s.store.LicensesTotal(ctx); err != nil {
		return nil, err
	}
	if sum.TransfersLast30Days, err = s.store.TransfersSince(ctx, 30); err != nil {
		return nil, err
	}
	if sum.LicensesExpiringSoon, err = s.store.LicensesExpiringWithin(ctx, 60); err != nil {
		return nil, err
	}
	return &sum, nil
}
