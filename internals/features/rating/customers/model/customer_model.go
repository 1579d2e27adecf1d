// file: internals/features/rating/customers/model/customer_model.go
package model

import "time"

type CustomerModel struct {
	CustomerID string    `json:"customerId" gorm:"type:text;primaryKey;column:customer_id"`
	NIC        string    `json:"nic" gorm:"type:varchar(12);not null;uniqueIndex:uq_customers_nic;column:customer_nic"`
	Name       string    `json:"name" gorm:"type:text;not null;column:customer_name"`
	Phone      *string   `json:"phone,omitempty" gorm:"type:varchar(32);column:customer_phone"`
	Email      *string   `json:"email,omitempty" gorm:"type:text;column:customer_email"`
	Address    *string   `json:"address,omitempty" gorm:"type:text;column:customer_address"`
	CreatedAt  time.Time `json:"createdAt" gorm:"not null;column:customer_created_at"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"not null;column:customer_updated_at"`
}

func (CustomerModel) TableName() string { return "customers" }
