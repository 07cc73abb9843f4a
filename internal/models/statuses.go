package models

import "strings"

type ListType string
type ConfirmationCodeStatus string
type PersonType string
type RoleName string

const (
	ListTypeSaved   ListType = "SAVED"
	ListTypeLiked   ListType = "LIKED"
	ListTypeCreated ListType = "CREATED"

	ConfirmationCodeNew  ConfirmationCodeStatus = "NEW"
	ConfirmationCodeUsed ConfirmationCodeStatus = "USED"

	PersonTypeEctomorph PersonType = "ECTOMORPH"
	PersonTypeMesomorph PersonType = "MESOMORPH"
	PersonTypeEndomorph PersonType = "ENDOMORPH"

	RoleUser  RoleName = "ROLE_USER"
	RoleAdmin RoleName = "ROLE_ADMIN"
)

// ParseListType принимает значение без учета регистра
func ParseListType(s string) (ListType, bool) {
	switch lt := ListType(strings.ToUpper(strings.TrimSpace(s))); lt {
	case ListTypeSaved, ListTypeLiked, ListTypeCreated:
		return lt, true
	}
	return "", false
}

func (p PersonType) IsValid() bool {
	switch p {
	case PersonTypeEctomorph, PersonTypeMesomorph, PersonTypeEndomorph:
		return true
	}
	return false
}
