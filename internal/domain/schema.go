package domain

// Target schemas for the six canonical entity types. Every schema carries an
// external_id so repository writes stay idempotent across re-runs.

var customerSchema = []SchemaField{
	{Name: "external_id", Type: FieldTypeString, Required: true, Description: "Identifier from the source platform"},
	{Name: "first_name", Type: FieldTypeString, Description: "Customer first name"},
	{Name: "last_name", Type: FieldTypeString, Description: "Customer last name"},
	{Name: "display_name", Type: FieldTypeString, Description: "Full name shown in lists"},
	{Name: "email", Type: FieldTypeString, Required: true, Description: "Primary email address"},
	{Name: "phone", Type: FieldTypeString, Description: "Primary phone number"},
	{Name: "secondary_phone", Type: FieldTypeString, Description: "Alternate phone number"},
	{Name: "company", Type: FieldTypeString, Description: "Company name for commercial customers"},
	{Name: "tags", Type: FieldTypeString, Description: "Comma-separated customer tags"},
	{Name: "notes", Type: FieldTypeString, Description: "Free-form notes"},
}

var propertySchema = []SchemaField{
	{Name: "external_id", Type: FieldTypeString, Required: true, Description: "Identifier from the source platform"},
	{Name: "customer_id", Type: FieldTypeString, Required: true, Description: "Owning customer"},
	{Name: "address_line1", Type: FieldTypeString, Required: true, Description: "Street address"},
	{Name: "address_line2", Type: FieldTypeString, Description: "Unit, suite, or floor"},
	{Name: "city", Type: FieldTypeString, Description: "City"},
	{Name: "state", Type: FieldTypeString, Description: "Two-letter region code"},
	{Name: "zip", Type: FieldTypeString, Description: "Postal code"},
	{Name: "property_type", Type: FieldTypeString, Description: "residential or commercial"},
	{Name: "square_footage", Type: FieldTypeNumber, Description: "Building size"},
	{Name: "year_built", Type: FieldTypeNumber, Description: "Construction year"},
	{Name: "notes", Type: FieldTypeString, Description: "Access notes, gate codes"},
}

var jobSchema = []SchemaField{
	{Name: "external_id", Type: FieldTypeString, Required: true, Description: "Identifier from the source platform"},
	{Name: "customer_id", Type: FieldTypeString, Required: true, Description: "Customer the job was performed for"},
	{Name: "property_id", Type: FieldTypeString, Description: "Service location"},
	{Name: "team_member_id", Type: FieldTypeString, Description: "Assigned technician"},
	{Name: "title", Type: FieldTypeString, Required: true, Description: "Short job title"},
	{Name: "description", Type: FieldTypeString, Description: "Work description"},
	{Name: "status", Type: FieldTypeString, Description: "scheduled, in_progress, completed, cancelled"},
	{Name: "job_type", Type: FieldTypeString, Description: "Service category"},
	{Name: "scheduled_start", Type: FieldTypeDate, Description: "Scheduled start time"},
	{Name: "scheduled_end", Type: FieldTypeDate, Description: "Scheduled end time"},
	{Name: "total_amount", Type: FieldTypeNumber, Description: "Job total"},
	{Name: "notes", Type: FieldTypeString, Description: "Internal notes"},
}

var invoiceSchema = []SchemaField{
	{Name: "external_id", Type: FieldTypeString, Required: true, Description: "Identifier from the source platform"},
	{Name: "customer_id", Type: FieldTypeString, Required: true, Description: "Billed customer"},
	{Name: "job_id", Type: FieldTypeString, Description: "Originating job"},
	{Name: "invoice_number", Type: FieldTypeString, Description: "Human-readable invoice number"},
	{Name: "status", Type: FieldTypeString, Description: "draft, sent, paid, overdue, void"},
	{Name: "issued_date", Type: FieldTypeDate, Description: "Issue date"},
	{Name: "due_date", Type: FieldTypeDate, Description: "Payment due date"},
	{Name: "subtotal", Type: FieldTypeNumber, Description: "Pre-tax amount"},
	{Name: "tax", Type: FieldTypeNumber, Description: "Tax amount"},
	{Name: "total", Type: FieldTypeNumber, Description: "Invoice total"},
	{Name: "balance_due", Type: FieldTypeNumber, Description: "Outstanding balance"},
	{Name: "notes", Type: FieldTypeString, Description: "Terms or memo"},
}

var equipmentSchema = []SchemaField{
	{Name: "external_id", Type: FieldTypeString, Required: true, Description: "Identifier from the source platform"},
	{Name: "customer_id", Type: FieldTypeString, Required: true, Description: "Owning customer"},
	{Name: "property_id", Type: FieldTypeString, Description: "Installed location"},
	{Name: "name", Type: FieldTypeString, Required: true, Description: "Equipment name"},
	{Name: "make", Type: FieldTypeString, Description: "Manufacturer"},
	{Name: "model", Type: FieldTypeString, Description: "Model number"},
	{Name: "serial_number", Type: FieldTypeString, Description: "Serial number"},
	{Name: "install_date", Type: FieldTypeDate, Description: "Installation date"},
	{Name: "warranty_expiry", Type: FieldTypeDate, Description: "Warranty expiration"},
	{Name: "notes", Type: FieldTypeString, Description: "Service history notes"},
}

var teamSchema = []SchemaField{
	{Name: "external_id", Type: FieldTypeString, Required: true, Description: "Identifier from the source platform"},
	{Name: "first_name", Type: FieldTypeString, Required: true, Description: "First name"},
	{Name: "last_name", Type: FieldTypeString, Description: "Last name"},
	{Name: "display_name", Type: FieldTypeString, Description: "Name shown on schedules"},
	{Name: "email", Type: FieldTypeString, Required: true, Description: "Work email"},
	{Name: "phone", Type: FieldTypeString, Description: "Mobile phone"},
	{Name: "role", Type: FieldTypeString, Description: "technician, dispatcher, admin"},
	{Name: "hourly_rate", Type: FieldTypeNumber, Description: "Billing rate"},
	{Name: "is_active", Type: FieldTypeBoolean, Description: "Whether the member is active"},
}

var targetSchemas = map[EntityType][]SchemaField{
	EntityCustomers:  customerSchema,
	EntityProperties: propertySchema,
	EntityJobs:       jobSchema,
	EntityInvoices:   invoiceSchema,
	EntityEquipment:  equipmentSchema,
	EntityTeam:       teamSchema,
}

// TargetSchema returns the canonical schema for an entity type.
func TargetSchema(entityType EntityType) []SchemaField {
	return targetSchemas[entityType]
}

// RequiredFields returns the names of the required fields of a schema.
func RequiredFields(schema []SchemaField) []string {
	var required []string
	for _, f := range schema {
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return required
}
