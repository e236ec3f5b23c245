package servicenow

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/conn-castle/snset/internal/messages"
	"github.com/conn-castle/snset/internal/reconcile"
	"github.com/conn-castle/snset/internal/updateset"
)

// Field lists requested by the ordering lookups.
var (
	InstallOrderFields = []string{
		"name",
		"state",
		"update_source",
		"description",
		"sys_created_on",
		"commit_date",
		"sys_updated_by",
		"sys_updated_on",
		"collisions",
	}
	NewInstallOrderFields = []string{
		"name",
		"state",
		"description",
		"sys_created_on",
		"sys_updated_by",
		"sys_updated_on",
	}
)

// orderedLookup describes a name-filtered query whose results are ordered by
// a timestamp field.
type orderedLookup struct {
	op           string
	table        string
	fields       []string
	orderBy      string
	displayValue bool
	// filter returns the encoded query for a name condition such as
	// "nameINa,b" or "name=a".
	filter func(nameCondition string) string
}

var installOrderLookup = orderedLookup{
	op:           messages.ServiceNowInstallOrderOp,
	table:        TableRemoteUpdateSet,
	fields:       InstallOrderFields,
	orderBy:      "commit_date",
	displayValue: true,
	filter: func(names string) string {
		return "state=committed^" + names + "^commit_dateISNOTEMPTY^ORDERBYcommit_date"
	},
}

var newInstallOrderLookup = orderedLookup{
	op:      messages.ServiceNowNewInstallOrderOp,
	table:   TableUpdateSet,
	fields:  NewInstallOrderFields,
	orderBy: "sys_updated_on",
	filter: func(names string) string {
		return names + "^installed_fromISEMPTY^install_date=NULL^ORDERBYsys_updated_on"
	},
}

// InstallOrder returns the committed remote update sets among names, ordered
// by commit date.
func (c *Client) InstallOrder(ctx context.Context, instance string, names []string) ([]updateset.Record, error) {
	return c.resolveOrder(ctx, instance, names, installOrderLookup)
}

// NewInstallOrder returns update sets among names that were created on
// instance and never installed from elsewhere, ordered by last update.
// These have no sys_remote_update_set record yet.
func (c *Client) NewInstallOrder(ctx context.Context, instance string, names []string) ([]updateset.Record, error) {
	return c.resolveOrder(ctx, instance, names, newInstallOrderLookup)
}

// resolveOrder runs lookup for all names in one request. When the instance
// rejects it with a 400 (usually a URL that is too long) it issues one
// request per distinct name and sorts the merged results client side. Any
// other error is returned unchanged.
func (c *Client) resolveOrder(ctx context.Context, instance string, names []string, lookup orderedLookup) ([]updateset.Record, error) {
	if err := c.ValidateInstance(instance); err != nil {
		return nil, err
	}
	if err := reconcile.ValidateNames(names); err != nil {
		return nil, err
	}

	uri := c.TableURL(instance, lookup.table)
	records, err := c.Fetch(ctx, uri, lookup.params("nameIN"+strings.Join(names, ",")))
	if err == nil || !IsBadRequest(err) {
		return records, err
	}

	unique := uniqueNames(names)
	_, _ = color.New(color.FgYellow).Fprintf(c.log, messages.ServiceNowSplitWarningFmt, lookup.op, len(unique))
	merged := make([]updateset.Record, 0, len(unique))
	for _, name := range unique {
		result, err := c.Fetch(ctx, uri, lookup.params("name="+name))
		if err != nil {
			return nil, err
		}
		merged = append(merged, result...)
	}
	if err := SortByTimestamp(merged, lookup.orderBy, c.layout); err != nil {
		return nil, err
	}
	return merged, nil
}

// uniqueNames drops names that repeat after normalization, keeping the first
// spelling. A single name= query already returns every record with that name.
func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		key := updateset.Normalize(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

func (l orderedLookup) params(nameCondition string) url.Values {
	params := url.Values{}
	params.Set("sysparm_query", l.filter(nameCondition))
	params.Set("sysparm_fields", strings.Join(l.fields, ","))
	if l.displayValue {
		params.Set("sysparm_display_value", "true")
	}
	return params
}

// SortByTimestamp stable-sorts records ascending by the time in field,
// parsed with layout. A missing or unparseable timestamp is an error.
func SortByTimestamp(records []updateset.Record, field string, layout string) error {
	keys := make([]time.Time, len(records))
	for i, r := range records {
		raw := strings.TrimSpace(r.String(field))
		ts, err := time.Parse(layout, raw)
		if err != nil {
			return fmt.Errorf(messages.ServiceNowTimestampParseErrFmt, field, raw, r.Name(), err)
		}
		keys[i] = ts
	}
	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return keys[idx[a]].Before(keys[idx[b]]) })

	sorted := make([]updateset.Record, len(records))
	for i, j := range idx {
		sorted[i] = records[j]
	}
	copy(records, sorted)
	return nil
}
