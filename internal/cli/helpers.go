package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/andy/oficina/internal/domain"
)

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// parseIDs parses every argument as a numeric id
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
		if err != nil {
			return nil, errors.NotValidf("id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseQuantity parses "id:qty"; a bare id means one unit
func parseQuantity(s string) (int64, int, error) {
	idPart, qtyPart, hasQty := strings.Cut(s, ":")
	id, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
	if err != nil {
		return 0, 0, errors.NotValidf("line %q", s)
	}
	if !hasQty {
		return id, 1, nil
	}
	qty, err := strconv.Atoi(strings.TrimSpace(qtyPart))
	if err != nil {
		return 0, 0, errors.NotValidf("quantity in %q", s)
	}
	return id, qty, nil
}

// resolveActor looks up the account named by --as
func resolveActor(ctx context.Context, cmd *cobra.Command) (*domain.Account, error) {
	ref, _ := cmd.Flags().GetString("as")
	return appInstance.AccountService.Resolve(ctx, ref)
}

func formatMoney(v float64) string {
	return "R$ " + strconv.FormatFloat(v, 'f', 2, 64)
}
