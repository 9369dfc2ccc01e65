package models

// CustomerKind discriminates the two customer record shapes. Persistence and
// tax-id extraction dispatch on this tag, never on field presence.
type CustomerKind string

const (
	CustomerMember  CustomerKind = "member"
	CustomerProfile CustomerKind = "profile"
)

// Customer is the tagged union handed to the payment facade. Exactly one of
// Member or Profile is set, matching Kind.
type Customer struct {
	Kind    CustomerKind
	Member  *User
	Profile *Profile
}

func CustomerFromMember(u *User) Customer {
	return Customer{Kind: CustomerMember, Member: u}
}

func CustomerFromProfile(p *Profile) Customer {
	return Customer{Kind: CustomerProfile, Profile: p}
}

func (c Customer) ID() string {
	switch c.Kind {
	case CustomerMember:
		return c.Member.ID
	case CustomerProfile:
		return c.Profile.ID
	}
	return ""
}

func (c Customer) Name() string {
	switch c.Kind {
	case CustomerMember:
		return c.Member.DisplayName()
	case CustomerProfile:
		return c.Profile.Name
	}
	return ""
}

func (c Customer) Email() string {
	switch c.Kind {
	case CustomerMember:
		return c.Member.Email
	case CustomerProfile:
		return c.Profile.Email
	}
	return ""
}

func (c Customer) Phone() string {
	switch c.Kind {
	case CustomerMember:
		return c.Member.Phone
	case CustomerProfile:
		return c.Profile.Phone
	}
	return ""
}

// RawTaxID returns the unnormalized tax identifier from the field the record
// shape exposes: CPF for members, Document for profiles.
func (c Customer) RawTaxID() string {
	switch c.Kind {
	case CustomerMember:
		return c.Member.CPF
	case CustomerProfile:
		return c.Profile.Document
	}
	return ""
}

func (c Customer) GatewayCustomerID() string {
	switch c.Kind {
	case CustomerMember:
		return c.Member.GatewayCustomerID
	case CustomerProfile:
		return c.Profile.GatewayCustomerID
	}
	return ""
}

func (c Customer) SetGatewayCustomerID(id string) {
	switch c.Kind {
	case CustomerMember:
		c.Member.GatewayCustomerID = id
	case CustomerProfile:
		c.Profile.GatewayCustomerID = id
	}
}

func (c Customer) SavedCards() []SavedCard {
	switch c.Kind {
	case CustomerMember:
		return c.Member.SavedCards
	case CustomerProfile:
		return c.Profile.SavedCards
	}
	return nil
}

// HasSavedToken reports whether the customer already holds this card token.
func (c Customer) HasSavedToken(token string) bool {
	if token == "" {
		return false
	}
	for _, sc := range c.SavedCards() {
		if sc.Token == token {
			return true
		}
	}
	return false
}

func (c Customer) AppendSavedCard(card SavedCard) {
	switch c.Kind {
	case CustomerMember:
		c.Member.SavedCards = append(c.Member.SavedCards, card)
	case CustomerProfile:
		c.Profile.SavedCards = append(c.Profile.SavedCards, card)
	}
}
