package core

import "time"

// Kind identifies an entity collection. The value doubles as the URL segment.
type Kind string

const (
	KindHousehold         Kind = "households"
	KindProperty          Kind = "properties"
	KindSpace             Kind = "spaces"
	KindMaintenanceTask   Kind = "tasks"
	KindProject           Kind = "projects"
	KindTag               Kind = "tags"
	KindInventoryItem     Kind = "inventory"
	KindInventoryCategory Kind = "categories"
	KindContact           Kind = "contacts"
	KindDocument          Kind = "documents"
	KindInsurancePolicy   Kind = "policies"
	KindUtilityAccount    Kind = "utilities"
)

// Kinds lists every entity kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindHousehold, KindProperty, KindSpace, KindMaintenanceTask, KindProject, KindTag,
		KindInventoryItem, KindInventoryCategory, KindContact, KindDocument,
		KindInsurancePolicy, KindUtilityAccount,
	}
}

// Valid reports whether k names a known collection.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Entity is implemented by every stored record.
type Entity interface {
	EntityID() string
	// ScopeID is the owning property id, "" when the record is not tied to one.
	ScopeID() string
	TagNames() []string
}

type (
	Note struct {
		ID           string `json:"id"`
		Text         string `json:"text" validate:"required,max=4000"`
		CreatedAtUTC Date   `json:"createdAtUtc"`
	}

	// Record holds the fields shared by every entity.
	Record struct {
		ID           string    `json:"id"`
		Tags         []string  `json:"tags" validate:"dive,required,max=100"`
		Notes        []Note    `json:"notes" validate:"dive"`
		DocumentIDs  []string  `json:"documentIds"`
		CreatedAtUTC time.Time `json:"createdAtUtc"`
		UpdatedAtUTC time.Time `json:"updatedAtUtc"`
	}

	Household struct {
		Record
		Name        string   `json:"name" validate:"required,max=200"`
		PropertyIDs []string `json:"propertyIds"`
	}

	Property struct {
		Record
		HouseholdID     string `json:"householdId"`
		Name            string `json:"name" validate:"required,max=200"`
		Address         string `json:"address" validate:"max=500"`
		Kind            string `json:"kind" validate:"omitempty,oneof=house apartment condo land other"`
		PurchaseDateUTC Date   `json:"purchaseDateUtc"`
		PurchasePrice   Money  `json:"purchasePrice" validate:"gte=0"`
	}

	Space struct {
		Record
		PropertyID string  `json:"propertyId" validate:"required"`
		Name       string  `json:"name" validate:"required,max=200"`
		Floor      string  `json:"floor,omitempty"`
		AreaSqm    float64 `json:"areaSqm,omitempty" validate:"gte=0"`
	}

	MaintenanceTask struct {
		Record
		PropertyID       string     `json:"propertyId" validate:"required"`
		SpaceID          string     `json:"spaceId,omitempty"`
		Title            string     `json:"title" validate:"required,max=200"`
		Priority         string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
		Status           TaskStatus `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
		DueDateUTC       Date       `json:"dueDateUtc"`
		LastCompletedUTC Date       `json:"lastCompletedUtc"`
		Recurrence       Recurrence `json:"recurrence" validate:"omitempty,oneof=none daily weekly monthly yearly"`
		EstimatedCost    Money      `json:"estimatedCost" validate:"gte=0"`
	}

	ProjectTask struct {
		ID          string        `json:"id"`
		Title       string        `json:"title" validate:"required,max=200"`
		IsCompleted bool          `json:"isCompleted"`
		Subtasks    []ProjectTask `json:"subtasks,omitempty" validate:"dive"`
	}

	ProjectExpense struct {
		ID         string `json:"id"`
		Title      string `json:"title" validate:"required,max=200"`
		Amount     Money  `json:"amount" validate:"gte=0"`
		DateUTC    Date   `json:"dateUtc"`
		DocumentID string `json:"documentId,omitempty"`
	}

	Project struct {
		Record
		PropertyID   string           `json:"propertyId" validate:"required"`
		Title        string           `json:"title" validate:"required,max=200"`
		Status       string           `json:"status" validate:"omitempty,oneof=planning in_progress on_hold completed"`
		Budget       Money            `json:"budget" validate:"gte=0"`
		ActualCost   Money            `json:"actualCost" validate:"gte=0"`
		StartDateUTC Date             `json:"startDateUtc"`
		EndDateUTC   Date             `json:"endDateUtc"`
		Tasks        []ProjectTask    `json:"tasks" validate:"dive"`
		Expenses     []ProjectExpense `json:"expenses" validate:"dive"`
	}

	Tag struct {
		Record
		PropertyID string `json:"propertyId,omitempty"`
		Name       string `json:"name" validate:"required,max=100"`
		Color      string `json:"color,omitempty"`
		// UsageCount is display-seeded; live usage comes from tag aggregation.
		UsageCount int `json:"usageCount" validate:"gte=0"`
	}

	InventoryItem struct {
		Record
		PropertyID        string `json:"propertyId" validate:"required"`
		SpaceID           string `json:"spaceId,omitempty"`
		CategoryID        string `json:"categoryId,omitempty"`
		Name              string `json:"name" validate:"required,max=200"`
		Quantity          int    `json:"quantity" validate:"gte=0"`
		PurchasePrice     Money  `json:"purchasePrice" validate:"gte=0"`
		PurchaseDateUTC   Date   `json:"purchaseDateUtc"`
		WarrantyExpiryUTC Date   `json:"warrantyExpiryUtc"`
	}

	InventoryCategory struct {
		Record
		PropertyID  string `json:"propertyId,omitempty"`
		Name        string `json:"name" validate:"required,max=100"`
		Description string `json:"description,omitempty"`
	}

	Contact struct {
		Record
		PropertyID string `json:"propertyId,omitempty"`
		Name       string `json:"name" validate:"required,max=200"`
		Role       string `json:"role,omitempty"`
		Phone      string `json:"phone,omitempty"`
		Email      string `json:"email,omitempty" validate:"omitempty,email"`
	}

	Document struct {
		Record
		PropertyID    string `json:"propertyId,omitempty"`
		Title         string `json:"title" validate:"required,max=200"`
		Kind          string `json:"kind,omitempty"`
		URL           string `json:"url,omitempty" validate:"omitempty,url"`
		ExpiryDateUTC Date   `json:"expiryDateUtc"`
	}

	InsurancePolicy struct {
		Record
		PropertyID   string           `json:"propertyId" validate:"required"`
		Provider     string           `json:"provider" validate:"required,max=200"`
		PolicyNumber string           `json:"policyNumber"`
		Coverage     string           `json:"coverage,omitempty"`
		Premium      Money            `json:"premium" validate:"gte=0"`
		RenewalDate  Date             `json:"renewalDate"`
		Claims       []InsuranceClaim `json:"claims" validate:"dive"`
	}

	UtilityInvoice struct {
		ID         string `json:"id"`
		Amount     Money  `json:"amount" validate:"gte=0"`
		DueDateUTC Date   `json:"dueDateUtc"`
		Note       string `json:"note,omitempty"`
	}

	UtilityAccount struct {
		Record
		PropertyID           string           `json:"propertyId" validate:"required"`
		Provider             string           `json:"provider" validate:"required,max=200"`
		UtilityType          string           `json:"utilityType" validate:"omitempty,oneof=electricity gas water internet other"`
		AccountNumber        string           `json:"accountNumber,omitempty"`
		AverageMonthlyCost   Money            `json:"averageMonthlyCost" validate:"gte=0"`
		UseCalculatedAverage bool             `json:"useCalculatedAverage"`
		Invoices             []UtilityInvoice `json:"invoices" validate:"dive"`
	}
)

// Meta exposes the shared fields for stamping ids and audit times.
func (r *Record) Meta() *Record { return r }

func (r Record) EntityID() string   { return r.ID }
func (r Record) TagNames() []string { return r.Tags }

func (Household) ScopeID() string           { return "" }
func (p Property) ScopeID() string          { return p.ID }
func (s Space) ScopeID() string             { return s.PropertyID }
func (t MaintenanceTask) ScopeID() string   { return t.PropertyID }
func (p Project) ScopeID() string           { return p.PropertyID }
func (t Tag) ScopeID() string               { return t.PropertyID }
func (i InventoryItem) ScopeID() string     { return i.PropertyID }
func (c InventoryCategory) ScopeID() string { return c.PropertyID }
func (c Contact) ScopeID() string           { return c.PropertyID }
func (d Document) ScopeID() string          { return d.PropertyID }
func (p InsurancePolicy) ScopeID() string   { return p.PropertyID }
func (u UtilityAccount) ScopeID() string    { return u.PropertyID }

// Snapshot is a point-in-time copy of every collection.
type Snapshot struct {
	Households []Household         `json:"households"`
	Properties []Property          `json:"properties"`
	Spaces     []Space             `json:"spaces"`
	Tasks      []MaintenanceTask   `json:"tasks"`
	Projects   []Project           `json:"projects"`
	Tags       []Tag               `json:"tags"`
	Inventory  []InventoryItem     `json:"inventory"`
	Categories []InventoryCategory `json:"categories"`
	Contacts   []Contact           `json:"contacts"`
	Documents  []Document          `json:"documents"`
	Policies   []InsurancePolicy   `json:"policies"`
	Utilities  []UtilityAccount    `json:"utilities"`
}

// Stampable is an addressable entity whose shared fields can be written.
// Pointers to every entity type implement it.
type Stampable interface {
	Entity
	Meta() *Record
}
