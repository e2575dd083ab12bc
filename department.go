package roster

import (
	"regexp"
	"strings"
)

// Department is one entry of the closed department taxonomy.
type Department string

// Department values.
const (
	DepartmentTechnology     Department = "Technology"
	DepartmentFinance        Department = "Finance"
	DepartmentOperations     Department = "Operations"
	DepartmentMarketing      Department = "Marketing"
	DepartmentHumanResources Department = "Human Resources"
	DepartmentSales          Department = "Sales"
	DepartmentLegal          Department = "Legal"
	DepartmentProduct        Department = "Product"
	DepartmentExecutive      Department = "Executive"
	DepartmentLeadership     Department = "Leadership"
	DepartmentOther          Department = "Other"
)

// Departments lists every department in the taxonomy.
var Departments = []Department{
	DepartmentTechnology,
	DepartmentFinance,
	DepartmentOperations,
	DepartmentMarketing,
	DepartmentHumanResources,
	DepartmentSales,
	DepartmentLegal,
	DepartmentProduct,
	DepartmentExecutive,
	DepartmentLeadership,
	DepartmentOther,
}

// IsValid reports whether d belongs to the taxonomy.
func (d Department) IsValid() bool {
	for _, v := range Departments {
		if d == v {
			return true
		}
	}
	return false
}

type departmentRule struct {
	department Department
	pattern    *regexp.Regexp
}

// departmentRules are checked in order. Functional departments come before
// Executive so that "Chief Technology Officer" lands in Technology.
var departmentRules = []departmentRule{
	{DepartmentTechnology, wordPattern("cto", "chief technology", "technology", "engineering", "engineer", "software", "technical", "architect", "developer")},
	{DepartmentFinance, wordPattern("cfo", "chief financial", "finance", "financial", "treasurer", "accounting", "controller")},
	{DepartmentOperations, wordPattern("coo", "chief operating", "operations", "logistics", "supply chain")},
	{DepartmentMarketing, wordPattern("cmo", "chief marketing", "marketing", "brand", "communications")},
	{DepartmentHumanResources, wordPattern("chro", "chief human", "chief people", "hr", "human resources", "people", "talent")},
	{DepartmentSales, wordPattern("sales", "revenue", "business development", "cro")},
	{DepartmentLegal, wordPattern("legal", "general counsel", "counsel", "attorney", "compliance")},
	{DepartmentProduct, wordPattern("product", "cpo", "chief product")},
	{DepartmentExecutive, wordPattern("ceo", "chief executive", "president", "founder", "co-founder", "chairman", "managing director", "executive director")},
}

// wordPattern compiles a case-insensitive pattern matching any of the
// keywords as whole words.
func wordPattern(keywords ...string) *regexp.Regexp {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// ClassifyDepartment maps a free-text job title to a department.
// An empty role is Leadership; a role matching no keyword set is Other.
func ClassifyDepartment(role string) Department {
	role = strings.TrimSpace(role)
	if role == "" {
		return DepartmentLeadership
	}
	for _, rule := range departmentRules {
		if rule.pattern.MatchString(role) {
			return rule.department
		}
	}
	return DepartmentOther
}
