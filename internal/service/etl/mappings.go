package etl

import "github.com/care-services/api-bi/internal/models"

const (
	DamageRepairCost  = 130.0
	DamageDescription = "Auto-generated damage report"
	RentalAmount      = 1000
)

func col(target, source string) ColumnMapping {
	return ColumnMapping{Target: target, Source: source}
}

func fixed(target string, v any) ColumnMapping {
	return ColumnMapping{Target: target, Derive: func(Row, *Generator) any { return v }}
}

// Mappings returns the loaders in load order: dimensions first, and facts
// after every table they reference.
func Mappings() []TableMapping {
	return []TableMapping{
		{
			Name:      "DimEmployee",
			Kind:      KindDimension,
			Model:     models.DimEmployee{},
			Source:    models.Employee{},
			Query:     "SELECT employee_id, name, address, job_title, employee_type, salary_rate, reports_to FROM employee",
			KeyColumn: "employee_id",
			KeyLabel:  "EmployeeID",
			Columns: []ColumnMapping{
				col("employee_id", "employee_id"),
				col("name", "name"),
				col("address", "address"),
				col("job_title", "job_title"),
				col("employee_type", "employee_type"),
				col("salary_rate", "salary_rate"),
				col("reports_to", "reports_to"),
			},
		},
		{
			Name:      "DimClient",
			Kind:      KindDimension,
			Model:     models.DimClient{},
			Source:    models.Client{},
			Query:     "SELECT client_id, name, address, contact_info FROM client",
			KeyColumn: "client_id",
			KeyLabel:  "ClientID",
			Columns: []ColumnMapping{
				col("client_id", "client_id"),
				col("name", "name"),
				col("address", "address"),
				col("contact_info", "contact_info"),
			},
		},
		{
			Name:      "DimService",
			Kind:      KindDimension,
			Model:     models.DimService{},
			Source:    models.ServiceType{},
			Query:     "SELECT st.service_type_id, st.service_name, st.rate, st.requires_certification FROM service_type st",
			KeyColumn: "service_type_id",
			KeyLabel:  "ServiceID",
			Columns: []ColumnMapping{
				col("service_id", "service_type_id"),
				col("service_name", "service_name"),
				col("rate", "rate"),
				col("requires_certification", "requires_certification"),
			},
		},
		{
			Name:      "DimAsset",
			Kind:      KindDimension,
			Model:     models.DimAsset{},
			Source:    models.Asset{},
			Query:     "SELECT asset_id, asset_type, location, monthly_rent FROM asset",
			KeyColumn: "asset_id",
			KeyLabel:  "AssetID",
			Columns: []ColumnMapping{
				col("asset_id", "asset_id"),
				col("asset_type", "asset_type"),
				col("location", "location"),
				col("monthly_rent", "monthly_rent"),
			},
		},
		{
			Name:      "DimRenter",
			Kind:      KindDimension,
			Model:     models.DimRenter{},
			Source:    models.Renter{},
			Query:     "SELECT renter_id, name, emergency_contact, family_doctor FROM renter",
			KeyColumn: "renter_id",
			KeyLabel:  "RenterID",
			Columns: []ColumnMapping{
				col("renter_id", "renter_id"),
				col("name", "name"),
				col("emergency_contact", "emergency_contact"),
				col("family_doctor", "family_doctor"),
			},
		},
		{
			// The source base_salary is not read; the warehouse gets a random
			// placeholder until payroll data is trusted.
			Name:      "FactPayroll",
			Kind:      KindFact,
			Model:     models.FactPayroll{},
			Source:    models.Payment{},
			Query:     "SELECT payment_id, employee_id, pay_date, over_time_pay, deductions, net_pay FROM payment",
			KeyColumn: "payment_id",
			KeyLabel:  "PayrollID",
			Columns: []ColumnMapping{
				col("payroll_id", "payment_id"),
				col("dim_employee_employee_id", "employee_id"),
				col("pay_date", "pay_date"),
				{Target: "base_salary", Derive: func(_ Row, g *Generator) any { return g.BaseSalary() }},
				col("over_time_pay", "over_time_pay"),
				col("deductions", "deductions"),
				col("net_pay", "net_pay"),
			},
		},
		{
			Name:      "FactShifts",
			Kind:      KindFact,
			Model:     models.FactShifts{},
			Source:    models.Shift{},
			Query:     "SELECT shift_id, employee_id, start_time, end_time, is_on_call FROM shift",
			KeyColumn: "shift_id",
			KeyLabel:  "ShiftID",
			Columns: []ColumnMapping{
				col("shift_id", "shift_id"),
				col("dim_employee_employee_id", "employee_id"),
				col("start_time", "start_time"),
				col("end_time", "end_time"),
				col("is_on_call", "is_on_call"),
			},
		},
		{
			// One attendance row per shift, keyed by the shift id.
			Name:      "FactAttendance",
			Kind:      KindFact,
			Model:     models.FactAttendance{},
			Source:    models.Shift{},
			Query:     "SELECT s.shift_id, s.employee_id, s.is_on_call FROM shift s",
			KeyColumn: "shift_id",
			KeyLabel:  "AttendanceID",
			Columns: []ColumnMapping{
				col("attendance_id", "shift_id"),
				col("dim_employee_employee_id", "employee_id"),
				col("dim_fact_shifts_shift_id", "shift_id"),
				fixed("is_holiday", false),
				fixed("is_vacation", false),
				col("is_on_call", "is_on_call"),
			},
		},
		{
			Name:      "FactServiceAssignment",
			Kind:      KindFact,
			Model:     models.FactServiceAssignment{},
			Source:    models.Service{},
			Query:     "SELECT service_id, service_type_id, employee_id, scheduled_date FROM service",
			KeyColumn: "service_id",
			KeyLabel:  "AssignedID",
			Columns: []ColumnMapping{
				col("assigned_id", "service_id"),
				col("dim_employee_employee_id", "employee_id"),
				col("dim_service_service_id", "service_type_id"),
				col("scheduled_date", "scheduled_date"),
			},
		},
		{
			Name:      "FactInvoice",
			Kind:      KindFact,
			Model:     models.FactInvoice{},
			Source:    models.Service{},
			Query:     "SELECT service_id, service_type_id, client_id, scheduled_date, total_amount, is_paid FROM service",
			KeyColumn: "service_id",
			KeyLabel:  "InvoiceID",
			Columns: []ColumnMapping{
				col("invoice_id", "service_id"),
				col("dim_client_client_id", "client_id"),
				col("dim_service_service_id", "service_type_id"),
				col("invoice_date", "scheduled_date"),
				col("total_amount", "total_amount"),
				col("is_paid", "is_paid"),
			},
		},
		{
			Name:      "FactServiceRegistration",
			Kind:      KindFact,
			Model:     models.FactServiceRegistration{},
			Source:    models.Service{},
			Query:     "SELECT service_id, service_type_id, client_id, registration_date FROM service",
			KeyColumn: "service_id",
			KeyLabel:  "RegistrationID",
			Columns: []ColumnMapping{
				col("registration_id", "service_id"),
				col("dim_client_client_id", "client_id"),
				col("dim_service_service_id", "service_type_id"),
				col("registration_date", "registration_date"),
			},
		},
		{
			// There is no damage data in the source: every asset gets one
			// synthetic report.
			Name:      "FactDamageReport",
			Kind:      KindFact,
			Model:     models.FactDamageReport{},
			Source:    models.Asset{},
			Query:     "SELECT asset_id FROM asset",
			KeyColumn: "asset_id",
			KeyLabel:  "ReportID",
			Columns: []ColumnMapping{
				col("report_id", "asset_id"),
				col("dim_asset_asset_id", "asset_id"),
				{Target: "report_date", Derive: func(_ Row, g *Generator) any { return g.Now() }},
				fixed("repair_cost", DamageRepairCost),
				fixed("description", DamageDescription),
			},
		},
		{
			Name:      "FactRentalHistory",
			Kind:      KindFact,
			Model:     models.FactRentalHistory{},
			Source:    models.AssetRent{},
			Query:     "SELECT asset_rent_id, asset_id, renter_id, start_date, end_date FROM asset_rent",
			KeyColumn: "asset_rent_id",
			KeyLabel:  "HistoryID",
			Columns: []ColumnMapping{
				col("history_id", "asset_rent_id"),
				col("dim_asset_asset_id", "asset_id"),
				col("dim_renter_renter_id", "renter_id"),
				col("start_date", "start_date"),
				col("end_date", "end_date"),
				fixed("rent_amount", RentalAmount),
			},
		},
	}
}

// purgeOrder is the reverse of the load order so that no row is deleted
// while another table still references it.
func purgeOrder(mappings []TableMapping) []TableMapping {
	out := make([]TableMapping, len(mappings))
	for i, m := range mappings {
		out[len(mappings)-1-i] = m
	}
	return out
}
