package fieldmap

// w2FieldMap is the fixed table for the standardized W-2 form: business field
// names on the left, the PDF's AcroForm field identifiers on the right. The
// f1_*/c1_* fields cover Copy A; f2_*/c2_* cover the second copy.
var w2FieldMap = map[string]string{
	"employee_ssn":                   "f1_01[0]",
	"employee_ein":                   "f1_02[0]",
	"employer_name_address_zip":      "f1_03[0]",
	"control_number":                 "f1_04[0]",
	"first_name_and_initial":         "f1_05[0]",
	"last_name":                      "f1_06[0]",
	"suffix":                         "f1_07[0]",
	"address_and_zip":                "f1_08[0]",
	"wages_tips":                     "f1_09[0]",
	"fed_income_tax_withheld":        "f1_10[0]",
	"social_security_wages":          "f1_11[0]",
	"social_security_tax_withheld":   "f1_12[0]",
	"medicare_wages":                 "f1_13[0]",
	"medicare_tax_withheld":          "f1_14[0]",
	"social_security_tips":           "f1_15[0]",
	"allocated_tips":                 "f1_16[0]",
	"dependent_care_benefits":        "f1_18[0]",
	"non_qualified_plans":            "f1_19[0]",
	"twelve_a_code":                  "f1_20[0]",
	"twelve_a_amount":                "f1_21[0]",
	"twelve_b_code":                  "f1_22[0]",
	"twelve_b_amount":                "f1_23[0]",
	"twelve_c_code":                  "f1_24[0]",
	"twelve_c_amount":                "f1_25[0]",
	"twelve_d_code":                  "f1_26[0]",
	"twelve_d_amount":                "f1_27[0]",
	"other":                          "f1_28[0]",
	"state_1":                        "f1_29[0]",
	"state_1_employer_id":            "f1_30[0]",
	"state_2":                        "f1_31[0]",
	"state_2_employer_id":            "f1_32[0]",
	"state_1_wages_tips":             "f1_33[0]",
	"state_2_wages_tips":             "f1_34[0]",
	"state_1_income_tax":             "f1_35[0]",
	"state_2_income_tax":             "f1_36[0]",
	"state_1_local_wages_tips":       "f1_37[0]",
	"state_2_local_wages_tips":       "f1_38[0]",
	"state_1_local_income_tax":       "f1_39[0]",
	"state_2_local_income_tax":       "f1_40[0]",
	"state_1_locality_name":          "f1_41[0]",
	"state_2_locality_name":          "f1_42[0]",
	"void":                           "c1_1[0]",
	"statutory_employee":             "c1_2[0]",
	"retirement_plan":                "c1_3[0]",
	"third_party_sick_pay":           "c1_4[0]",
	"employee_ssn_2":                 "f2_01[0]",
	"employee_ein_2":                 "f2_02[0]",
	"employer_name_address_zip_2":    "f2_03[0]",
	"control_number_2":               "f2_04[0]",
	"first_name_and_initial_2":       "f2_05[0]",
	"last_name_2":                    "f2_06[0]",
	"suffix_2":                       "f2_07[0]",
	"address_and_zip_2":              "f2_08[0]",
	"wages_tips_2":                   "f2_09[0]",
	"fed_income_tax_withheld_2":      "f2_10[0]",
	"social_security_wages_2":        "f2_11[0]",
	"social_security_tax_withheld_2": "f2_12[0]",
	"medicare_wages_2":               "f2_13[0]",
	"medicare_tax_withheld_2":        "f2_14[0]",
	"social_security_tips_2":         "f2_15[0]",
	"allocated_tips_2":               "f2_16[0]",
	"dependent_care_benefits_2":      "f2_18[0]",
	"non_qualified_plans_2":          "f2_19[0]",
	"twelve_a_code_2":                "f2_20[0]",
	"twelve_a_amount_2":              "f2_21[0]",
	"twelve_b_code_2":                "f2_22[0]",
	"twelve_b_amount_2":              "f2_23[0]",
	"twelve_c_code_2":                "f2_24[0]",
	"twelve_c_amount_2":              "f2_25[0]",
	"twelve_d_code_2":                "f2_26[0]",
	"twelve_d_amount_2":              "f2_27[0]",
	"other_2":                        "f2_28[0]",
	"state_1_2":                      "f2_29[0]",
	"state_1_employer_id_2":          "f2_30[0]",
	"state_2_2":                      "f2_31[0]",
	"state_2_employer_id_2":          "f2_32[0]",
	"state_1_wages_tips_2":           "f2_33[0]",
	"state_2_wages_tips_2":           "f2_34[0]",
	"state_1_income_tax_2":           "f2_35[0]",
	"state_2_income_tax_2":           "f2_36[0]",
	"state_1_local_wages_tips_2":     "f2_37[0]",
	"state_2_local_wages_tips_2":     "f2_38[0]",
	"state_1_local_income_tax_2":     "f2_39[0]",
	"state_2_local_income_tax_2":     "f2_40[0]",
	"state_1_locality_name_2":        "f2_41[0]",
	"state_2_locality_name_2":        "f2_42[0]",
	"void_2":                         "c2_1[0]",
	"statutory_employee_2":           "c2_2[0]",
	"retirement_plan_2":              "c2_3[0]",
	"third_party_sick_pay_2":         "c2_4[0]",
}
