package schema

// Contact is a name/email/phone/message contact form.
func Contact() Schema {
	return Object(Fields{
		"name":    {Required()},
		"email":   {Required().WithMessage("Please enter a valid email address"), Email()},
		"phone":   {Phone()},
		"message": {MinLength(10).withEmptyCheck().WithMessage("Message must be at least 10 characters long")},
	})
}

// User is a sign-up form with password confirmation.
func User() Schema {
	return Object(Fields{
		"firstName":       {Required()},
		"lastName":        {Required()},
		"email":           {Required().WithMessage("Please enter a valid email address"), Email()},
		"password":        {Password(8).withEmptyCheck()},
		"confirmPassword": {Required()},
		"birthDate":       {Required().WithMessage("Date must be in the past"), PastDate()},
		"avatar":          {ImageFile()},
	}).Refine("confirmPassword", "Passwords don't match", func(values map[string]any) bool {
		return equalValues(values["password"], values["confirmPassword"])
	})
}

// Product is a catalogue entry with at least one image.
func Product() Schema {
	return Object(Fields{
		"name":        {Required()},
		"description": {OptionalString()},
		"price":       {Required().WithMessage("Must be a positive number"), Positive()},
		"category":    {Required()},
		"inStock":     {OptionalString()},
		"images":      {MinItems(1).WithMessage("At least one image is required"), ImageFile()},
	})
}

// withEmptyCheck makes a format rule also reject empty values with its own
// message.
func (r Rule) withEmptyCheck() Rule {
	r.skipEmpty = false
	return r
}
