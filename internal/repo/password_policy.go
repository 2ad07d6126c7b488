package repo

import (
	"fmt"
	"unicode"

	"product-catalog-api/internal/domain"
)

type PasswordPolicy struct {
	MinLength        int
	RequireDigit     bool
	RequireLowercase bool
	RequireUppercase bool
	RequireSymbol    bool
}

func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 6, RequireDigit: true, RequireLowercase: true, RequireUppercase: true, RequireSymbol: true}
}

// Check returns every rule the password breaks, in a stable order.
func (p PasswordPolicy) Check(pw string) domain.IdentityErrors {
	var errs domain.IdentityErrors
	if len(pw) < p.MinLength {
		errs = append(errs, domain.IdentityError{
			Code:        "PasswordTooShort",
			Description: fmt.Sprintf("Passwords must be at least %d characters.", p.MinLength),
		})
	}
	var digit, lower, upper, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r):
			symbol = true
		}
	}
	if p.RequireSymbol && !symbol {
		errs = append(errs, domain.IdentityError{Code: "PasswordRequiresNonAlphanumeric", Description: "Passwords must have at least one non alphanumeric character."})
	}
	if p.RequireDigit && !digit {
		errs = append(errs, domain.IdentityError{Code: "PasswordRequiresDigit", Description: "Passwords must have at least one digit ('0'-'9')."})
	}
	if p.RequireLowercase && !lower {
		errs = append(errs, domain.IdentityError{Code: "PasswordRequiresLower", Description: "Passwords must have at least one lowercase ('a'-'z')."})
	}
	if p.RequireUppercase && !upper {
		errs = append(errs, domain.IdentityError{Code: "PasswordRequiresUpper", Description: "Passwords must have at least one uppercase ('A'-'Z')."})
	}
	return errs
}
