package audit

import (
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-crm/pkg/types"
	"github.com/google/uuid"
)

// Snapshot builders produce full field dumps keyed by column name. Values are
// flattened to JSON-friendly primitives so prior/new states survive a jsonb
// round trip without type drift.

// CompanySnapshot captures the complete state of a company.
func CompanySnapshot(company types.Company) types.Snapshot {
	return types.Snapshot{
		"name":        company.Name,
		"address":     company.Address,
		"postal_code": company.PostalCode,
		"locality":    company.Locality,
		"country":     company.Country,
		"phone":       company.Phone,
		"email":       company.Email,
		"website":     company.Website,
		"notes":       company.Notes,
		"status":      string(company.Status),
		"tenant_id":   uuidValue(company.TenantID),
	}
}

// ContactSnapshot captures the complete state of a contact.
func ContactSnapshot(contact types.Contact) types.Snapshot {
	return types.Snapshot{
		"first_name": contact.FirstName,
		"last_name":  contact.LastName,
		"company_id": uuidValue(contact.CompanyID),
		"role_id":    uuidValue(contact.RoleID),
		"phone":      contact.Phone,
		"mobile":     contact.Mobile,
		"email":      contact.Email,
		"notes":      contact.Notes,
		"status":     string(contact.Status),
		"tenant_id":  uuidValue(contact.TenantID),
	}
}

// EngagementSnapshot captures the complete state of an engagement.
func EngagementSnapshot(engagement types.Engagement) types.Snapshot {
	return types.Snapshot{
		"date":       dateValue(engagement.Date),
		"start_time": engagement.StartTime,
		"duration":   engagement.Duration,
		"company_id": uuidValue(engagement.CompanyID),
		"contact_id": uuidValue(engagement.ContactID),
		"type_id":    uuidValue(engagement.TypeID),
		"notes":      engagement.Notes,
		"tenant_id":  uuidValue(engagement.TenantID),
	}
}

// DealSnapshot captures the complete state of a deal, including the linked
// contact set so pivot changes show up as alterations.
func DealSnapshot(deal types.Deal) types.Snapshot {
	contacts := make([]string, 0, len(deal.ContactIDs))
	for _, id := range deal.ContactIDs {
		contacts = append(contacts, id.String())
	}
	return types.Snapshot{
		"name":       deal.Name,
		"type_id":    uuidValue(deal.TypeID),
		"company_id": uuidValue(deal.CompanyID),
		"value":      deal.Value,
		"stage":      string(deal.Stage),
		"contacts":   joinSorted(contacts),
		"tenant_id":  uuidValue(deal.TenantID),
	}
}

// Changed reports whether the two snapshots differ in any field. Alterations
// are only logged when at least one field actually changed.
func Changed(prior, next types.Snapshot) bool {
	return !prior.Equal(next)
}

func uuidValue(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id.String()
}

func dateValue(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format("2006-01-02")
}

func joinSorted(values []string) string {
	if len(values) == 0 {
		return ""
	}
	sort.Strings(values)
	return strings.Join(values, ",")
}
