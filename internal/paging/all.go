package paging

import "context"

// maxPages bounds All against a server that never returns a short page
const maxPages = 1000

// All loads every page of filter, starting at page 1, until a page comes back
// short. onPage, if set, is called with the running total after each page.
func All[T any, F Filter[F]](ctx context.Context, fetch FetchFunc[T, F], filter F, onPage func(loaded int)) ([]T, error) {
	var all []T
	for page := 1; page <= maxPages; page++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		items, err := fetch(ctx, filter.WithPage(page))
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		if onPage != nil {
			onPage(len(all))
		}
		if len(items) < filter.PerPage() || len(items) == 0 {
			break
		}
	}
	return all, nil
}
