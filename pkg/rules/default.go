package rules

// DefaultSet returns the built-in order correction table. It mirrors
// the customer XPath mapping for staffing order documents: order
// number, collective-agreement position fields, cost-center reporting
// fields, and the conditional worksite name. An externally supplied
// rule set always takes precedence over these defaults.
func DefaultSet() Set {
	set, err := NewSet([]Rule{
		{
			Name:           "numero_commande",
			Description:    "Order number in OrderId/IdValue",
			TargetLocation: "//ReferenceInformation/OrderId/IdValue",
			SourceKey:      "order_id",
			ParentLocation: "//ReferenceInformation/OrderId",
			Position:       "before_siblings",
			Group:          "ReferenceInformation",
		},
		{
			Name:           "emploi_cc_position_code",
			Description:    "Collective-agreement job code in PositionStatus/Code",
			TargetLocation: "//PositionCharacteristics/PositionStatus/Code",
			SourceKey:      "emploi_cc",
			ParentLocation: "//PositionCharacteristics/PositionStatus",
			Position:       "first_child",
			Group:          "PositionCharacteristics",
		},
		{
			Name:           "categorie_socio_position_level",
			Description:    "Socio-professional category in PositionLevel",
			TargetLocation: "//PositionCharacteristics/PositionLevel",
			SourceKey:      "categorie_socio",
			ParentLocation: "//PositionCharacteristics",
			Position:       "after_position_status",
			Group:          "PositionCharacteristics",
		},
		{
			Name:           "classement_cc_coefficient",
			Description:    "Collective-agreement ranking in PositionCoefficient",
			TargetLocation: "//PositionCharacteristics/PositionCoefficient",
			SourceKey:      "classement_cc",
			ParentLocation: "//PositionCharacteristics",
			Position:       "after_position_level",
			Group:          "PositionCharacteristics",
		},
		{
			Name:           "centre_analyse_cost_center_name",
			Description:    "Full cost center in CostCenterName",
			TargetLocation: "//CustomerReportingRequirements/CostCenterName",
			SourceKey:      "centre_analyse",
			ParentLocation: "//CustomerReportingRequirements",
			Position:       "after_cost_center_code",
			Group:          "CustomerReportingRequirements",
		},
		{
			Name:           "centre_analyse_department_code",
			Description:    "Cost-center prefix in DepartmentCode",
			TargetLocation: "//CustomerReportingRequirements/DepartmentCode",
			SourceKey:      "centre_analyse_prefix",
			ParentLocation: "//CustomerReportingRequirements",
			Position:       "beginning",
			Group:          "CustomerReportingRequirements",
		},
		{
			Name:           "centre_analyse_cost_center_code",
			Description:    "Cost-center prefix in CostCenterCode",
			TargetLocation: "//CustomerReportingRequirements/CostCenterCode",
			SourceKey:      "centre_analyse_prefix",
			ParentLocation: "//CustomerReportingRequirements",
			Position:       "after_department_code",
			Group:          "CustomerReportingRequirements",
		},
		{
			Name:           "worksite_conditional",
			Description:    "Cost center in WorkSiteName when the site is not GEMENOS",
			TargetLocation: "//WorkSite/WorkSiteName",
			SourceKey:      "centre_analyse",
			Condition:      "site_not_gemenos",
			ParentLocation: "//WorkSite",
			Position:       "after_environment_id",
			Group:          "ContractInformation",
		},
	})
	if err != nil {
		panic(err) // the built-in table is validated by tests
	}
	return set
}

// ExpectedNames lists rule names a well-formed order rule table is
// expected to declare; orders-file validation reports any that are
// missing.
func ExpectedNames() []string {
	return []string{
		"numero_commande",
		"emploi_cc_position_code",
		"categorie_socio_position_level",
		"classement_cc_coefficient",
		"centre_analyse_cost_center_name",
	}
}
