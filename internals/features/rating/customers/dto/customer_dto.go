// file: internals/features/rating/customers/dto/customer_dto.go
package dto

import (
	"strings"

	"creditrating_backend/internals/features/rating/customers/model"
)

type CreateCustomerRequest struct {
	CustomerID string  `json:"customerId" validate:"required"`
	NIC        string  `json:"nic" validate:"required,nic"`
	Name       string  `json:"name" validate:"required"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Address    *string `json:"address,omitempty"`
}

func (r CreateCustomerRequest) ToModel() model.CustomerModel {
	return model.CustomerModel{
		CustomerID: strings.TrimSpace(r.CustomerID),
		NIC:        strings.ToUpper(strings.TrimSpace(r.NIC)),
		Name:       strings.TrimSpace(r.Name),
		Phone:      trimPtr(r.Phone),
		Email:      trimPtr(r.Email),
		Address:    trimPtr(r.Address),
	}
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
