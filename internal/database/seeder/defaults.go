package seeder

import "go.uber.org/zap"

// Defaults is the full sample data set in dependency order.
func Defaults(users AccountCreator, logger *zap.Logger) []Seeder {
	return []Seeder{
		CoursesSeeder{Courses: SampleCourses},
		CompanySeeder{Company: SampleCompany},
		AccountsSeeder{Users: users, Accounts: TestAccounts, Logger: logger},
		InquirySeeder{Inquiry: SampleInquiry},
	}
}
