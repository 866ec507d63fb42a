package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	// Commerce
	&Pricing{},
	&Order{},
	// Tenants
	&Company{},
	&CompanyService{},
	// Content
	&ContactSubmission{},
	&Project{},
	&Testimonial{},
}
