package cmd

import (
	"time"

	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/query"
	"github.com/spf13/cobra"
)

// listFlags are the query options shared by every list command.
type listFlags struct {
	page   int
	limit  int
	sort   string
	order  string
	search string
	from   string
	to     string
}

func (l *listFlags) register(cmd *cobra.Command, dates bool) {
	f := cmd.Flags()
	f.IntVar(&l.page, "page", 1, "Page number, starting at 1")
	f.IntVar(&l.limit, "limit", 0, "Items per page (0 uses the resource default)")
	f.StringVar(&l.sort, "sort", "", "Field to sort by")
	f.StringVar(&l.order, "order", "desc", "Sort direction: asc or desc")
	f.StringVar(&l.search, "search", "", "Case-insensitive text search")
	if dates {
		f.StringVar(&l.from, "from", "", "Only records on or after this date (2006-01-02 or RFC3339)")
		f.StringVar(&l.to, "to", "", "Only records on or before this date (2006-01-02 or RFC3339)")
	}
}

func (l listFlags) pageRequest() query.PageRequest {
	return query.PageRequest{Page: l.page, Limit: l.limit}
}

func (l listFlags) sortSpec() query.SortSpec {
	return query.SortSpec{Field: l.sort, Direction: query.SortDirection(l.order)}
}

func (l listFlags) dates() query.DateRange {
	return query.DateRange{From: l.from, To: l.to}
}

// optionalBool returns nil unless the flag was given on the command line.
func optionalBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil
	}
	return &v
}

func optionalFloat(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return nil
	}
	return &v
}

func optionalInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return nil
	}
	return &v
}

func optionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil
	}
	return &v
}

// optionalTime parses an RFC3339 flag value; an unset flag yields nil.
func optionalTime(cmd *cobra.Command, name string) (*time.Time, error) {
	s := optionalString(cmd, name)
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, models.Invalid("bad %s %q: want RFC3339", name, *s)
	}
	return &t, nil
}
