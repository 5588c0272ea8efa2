package models

// Tablas del sistema operacional (OLTP). Only the table names are needed by
// the pipeline; the columns live in the loader queries.

type Employee struct{}

func (Employee) TableName() string { return "employee" }

type Client struct{}

func (Client) TableName() string { return "client" }

type ServiceType struct{}

func (ServiceType) TableName() string { return "service_type" }

type Asset struct{}

func (Asset) TableName() string { return "asset" }

type Renter struct{}

func (Renter) TableName() string { return "renter" }

type Payment struct{}

func (Payment) TableName() string { return "payment" }

type Shift struct{}

func (Shift) TableName() string { return "shift" }

type Service struct{}

func (Service) TableName() string { return "service" }

type AssetRent struct{}

func (AssetRent) TableName() string { return "asset_rent" }

// Tabler is satisfied by every gorm model in this package.
type Tabler interface {
	TableName() string
}
