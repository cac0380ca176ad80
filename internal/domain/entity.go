package domain

// EntityType identifies one of the fixed canonical entity categories.
type EntityType string

const (
	EntityCustomers  EntityType = "customers"
	EntityProperties EntityType = "properties"
	EntityJobs       EntityType = "jobs"
	EntityInvoices   EntityType = "invoices"
	EntityEquipment  EntityType = "equipment"
	EntityTeam       EntityType = "team"
)

// AllEntityTypes lists every canonical entity type.
func AllEntityTypes() []EntityType {
	return []EntityType{
		EntityCustomers,
		EntityProperties,
		EntityJobs,
		EntityInvoices,
		EntityEquipment,
		EntityTeam,
	}
}

// IsValidEntityType reports whether s names a canonical entity type.
func IsValidEntityType(s string) bool {
	switch EntityType(s) {
	case EntityCustomers, EntityProperties, EntityJobs,
		EntityInvoices, EntityEquipment, EntityTeam:
		return true
	}
	return false
}

// ForeignKeyFields maps conventionally-named foreign-key fields on a target
// record to the entity type whose canonical id they must hold.
var ForeignKeyFields = map[string]EntityType{
	"customer_id":    EntityCustomers,
	"property_id":    EntityProperties,
	"job_id":         EntityJobs,
	"invoice_id":     EntityInvoices,
	"equipment_id":   EntityEquipment,
	"team_member_id": EntityTeam,
}

// EntityDependencies declares, per entity type, the entity types its records
// may reference through foreign keys. Drives the execution order of a run.
var EntityDependencies = map[EntityType][]EntityType{
	EntityCustomers:  nil,
	EntityTeam:       nil,
	EntityProperties: {EntityCustomers},
	EntityJobs:       {EntityCustomers, EntityProperties, EntityTeam},
	EntityInvoices:   {EntityCustomers, EntityJobs},
	EntityEquipment:  {EntityCustomers, EntityProperties},
}
