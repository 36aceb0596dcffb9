package migrations

import (
	"io/fs"

	crm "github.com/goliatone/go-crm"
	"github.com/goliatone/go-crm/audit"
	"github.com/goliatone/go-crm/store"
	"github.com/goliatone/go-persistence-bun"
)

func init() {
	persistence.RegisterModel((*store.TenantModel)(nil))
	persistence.RegisterModel((*store.CompanyModel)(nil))
	persistence.RegisterModel((*store.ContactModel)(nil))
	persistence.RegisterModel((*store.EngagementModel)(nil))
	persistence.RegisterModel((*store.DealModel)(nil))
	persistence.RegisterModel((*store.DealContactModel)(nil))
	persistence.RegisterModel((*store.LookupModel)(nil))
	persistence.RegisterModel((*audit.Entry)(nil))

	coreFS, err := fs.Sub(crm.GetCoreMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return
	}
	Register(coreFS)
}
