package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dimensión de empleados
type DimEmployee struct {
	EmployeeID   int              `gorm:"primaryKey;column:employee_id;autoIncrement:false"`
	Name         string           `gorm:"column:name"`
	Address      *string          `gorm:"column:address"`
	JobTitle     *string          `gorm:"column:job_title"`
	EmployeeType *string          `gorm:"column:employee_type"`
	SalaryRate   *decimal.Decimal `gorm:"column:salary_rate;type:numeric(10,2)"`
	ReportsTo    *int             `gorm:"column:reports_to"`
}

func (DimEmployee) TableName() string {
	return "dim_employee"
}

type DimClient struct {
	ClientID    int     `gorm:"primaryKey;column:client_id;autoIncrement:false"`
	Name        string  `gorm:"column:name"`
	Address     *string `gorm:"column:address"`
	ContactInfo *string `gorm:"column:contact_info"`
}

func (DimClient) TableName() string {
	return "dim_client"
}

// DimService is keyed by the source ServiceType id, not by Service.
type DimService struct {
	ServiceID             int              `gorm:"primaryKey;column:service_id;autoIncrement:false"`
	ServiceName           string           `gorm:"column:service_name"`
	Rate                  *decimal.Decimal `gorm:"column:rate;type:numeric(10,2)"`
	RequiresCertification *bool            `gorm:"column:requires_certification"`
}

func (DimService) TableName() string {
	return "dim_service"
}

type DimAsset struct {
	AssetID     int              `gorm:"primaryKey;column:asset_id;autoIncrement:false"`
	AssetType   string           `gorm:"column:asset_type"`
	Location    *string          `gorm:"column:location"`
	MonthlyRent *decimal.Decimal `gorm:"column:monthly_rent;type:numeric(10,2)"`
}

func (DimAsset) TableName() string {
	return "dim_asset"
}

type DimRenter struct {
	RenterID         int     `gorm:"primaryKey;column:renter_id;autoIncrement:false"`
	Name             string  `gorm:"column:name"`
	EmergencyContact *string `gorm:"column:emergency_contact"`
	FamilyDoctor     *string `gorm:"column:family_doctor"`
}

func (DimRenter) TableName() string {
	return "dim_renter"
}

// Tablas de hechos

type FactPayroll struct {
	PayrollID     int              `gorm:"primaryKey;column:payroll_id;autoIncrement:false"`
	DimEmployeeID int              `gorm:"column:dim_employee_employee_id"`
	PayDate       *time.Time       `gorm:"column:pay_date;type:date"`
	BaseSalary    decimal.Decimal  `gorm:"column:base_salary;type:numeric(10,2)"`
	OverTimePay   *decimal.Decimal `gorm:"column:over_time_pay;type:numeric(10,2)"`
	Deductions    *decimal.Decimal `gorm:"column:deductions;type:numeric(10,2)"`
	NetPay        *decimal.Decimal `gorm:"column:net_pay;type:numeric(10,2)"`
}

func (FactPayroll) TableName() string {
	return "fact_payroll"
}

type FactShifts struct {
	ShiftID       int        `gorm:"primaryKey;column:shift_id;autoIncrement:false"`
	DimEmployeeID int        `gorm:"column:dim_employee_employee_id"`
	StartTime     *time.Time `gorm:"column:start_time"`
	EndTime       *time.Time `gorm:"column:end_time"`
	IsOnCall      *bool      `gorm:"column:is_on_call"`
}

func (FactShifts) TableName() string {
	return "fact_shifts"
}

type FactAttendance struct {
	AttendanceID  int   `gorm:"primaryKey;column:attendance_id;autoIncrement:false"`
	DimEmployeeID int   `gorm:"column:dim_employee_employee_id"`
	ShiftID       int   `gorm:"column:dim_fact_shifts_shift_id"`
	IsHoliday     bool  `gorm:"column:is_holiday"`
	IsVacation    bool  `gorm:"column:is_vacation"`
	IsOnCall      *bool `gorm:"column:is_on_call"`
}

func (FactAttendance) TableName() string {
	return "fact_attendance"
}

type FactServiceAssignment struct {
	AssignedID    int        `gorm:"primaryKey;column:assigned_id;autoIncrement:false"`
	DimEmployeeID int        `gorm:"column:dim_employee_employee_id"`
	DimServiceID  int        `gorm:"column:dim_service_service_id"`
	ScheduledDate *time.Time `gorm:"column:scheduled_date;type:date"`
}

func (FactServiceAssignment) TableName() string {
	return "fact_service_assignment"
}

type FactInvoice struct {
	InvoiceID    int              `gorm:"primaryKey;column:invoice_id;autoIncrement:false"`
	DimClientID  int              `gorm:"column:dim_client_client_id"`
	DimServiceID int              `gorm:"column:dim_service_service_id"`
	InvoiceDate  *time.Time       `gorm:"column:invoice_date;type:date"`
	TotalAmount  *decimal.Decimal `gorm:"column:total_amount;type:numeric(10,2)"`
	IsPaid       *bool            `gorm:"column:is_paid"`
}

func (FactInvoice) TableName() string {
	return "fact_invoice"
}

type FactServiceRegistration struct {
	RegistrationID   int        `gorm:"primaryKey;column:registration_id;autoIncrement:false"`
	DimClientID      int        `gorm:"column:dim_client_client_id"`
	DimServiceID     int        `gorm:"column:dim_service_service_id"`
	RegistrationDate *time.Time `gorm:"column:registration_date;type:date"`
}

func (FactServiceRegistration) TableName() string {
	return "fact_service_registration"
}

type FactDamageReport struct {
	ReportID    int             `gorm:"primaryKey;column:report_id;autoIncrement:false"`
	DimAssetID  int             `gorm:"column:dim_asset_asset_id"`
	ReportDate  time.Time       `gorm:"column:report_date"`
	RepairCost  decimal.Decimal `gorm:"column:repair_cost;type:numeric(10,2)"`
	Description string          `gorm:"column:description"`
}

func (FactDamageReport) TableName() string {
	return "fact_damage_report"
}

type FactRentalHistory struct {
	HistoryID   int             `gorm:"primaryKey;column:history_id;autoIncrement:false"`
	DimAssetID  int             `gorm:"column:dim_asset_asset_id"`
	DimRenterID int             `gorm:"column:dim_renter_renter_id"`
	StartDate   *time.Time      `gorm:"column:start_date;type:date"`
	EndDate     *time.Time      `gorm:"column:end_date;type:date"`
	RentAmount  decimal.Decimal `gorm:"column:rent_amount;type:numeric(10,2)"`
}

func (FactRentalHistory) TableName() string {
	return "fact_rental_history"
}
