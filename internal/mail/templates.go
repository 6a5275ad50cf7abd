package mail

import (
	"strings"
	"time"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

const (
	bodyStyle   = "font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;"
	headerStyle = "background: linear-gradient(135deg, #1e3a8a, #22d3ee); padding: 40px; text-align: center; border-radius: 10px 10px 0 0;"
	cardStyle   = "background: white; padding: 30px; border-radius: 0 0 10px 10px; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);"
	buttonStyle = "background: #1e3a8a; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px;"
	itemStyle   = "margin: 10px 0;"
)

type CourseDetails struct {
	Duration   string `json:"duration"`
	Instructor string `json:"instructor"`
	StartDate  string `json:"start_date"`
}

func orTBD(s string) string {
	if strings.TrimSpace(s) == "" {
		return "TBD"
	}
	return s
}

func layout(title, heading string, content ...Node) Node {
	return Doctype(
		HTML(
			Head(TitleEl(Text(title))),
			Body(Style(bodyStyle),
				Div(Style(headerStyle),
					H1(Style("color: white; margin: 0;"), Text(heading)),
				),
				Div(Style(cardStyle), Group(content)),
			),
		),
	)
}

// multiline keeps the sender's line breaks; every line is escaped.
func multiline(s string) Node {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	nodes := make([]Node, 0, len(lines)*2)
	for i, l := range lines {
		if i > 0 {
			nodes = append(nodes, Br())
		}
		nodes = append(nodes, Text(l))
	}
	return Group(nodes)
}

func detail(label, value string) Node {
	return Li(Style(itemStyle), Strong(Text(label+":")), Text(" "+value))
}

func render(n Node) (string, error) {
	var b strings.Builder
	if err := n.Render(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func contactConfirmation(name, inquiryType, message string) Node {
	return layout("Thank You for Contacting Us", "Thank You for Contacting Azellar",
		P(Text("Dear "+name+",")),
		P(
			Text("Thank you for reaching out to Azellar! We have received your message regarding "),
			Strong(Text(inquiryType)),
			Text("."),
		),
		Div(Style("background: #f8fafc; padding: 20px; border-radius: 8px; margin: 20px 0;"),
			P(Strong(Text("Your Message:"))),
			P(Style("font-style: italic;"), multiline(message)),
		),
		P(Text("Our team will review your message and get back to you within 24 hours.")),
		Div(Style("text-align: center; margin: 30px 0;"),
			A(Href("https://azellar.com"), Style(buttonStyle), Text("Visit Our Website")),
		),
		P(Text("Best regards,"), Br(), Text("The Azellar Team")),
	)
}

func contactAdminNotification(name, email, inquiryType, message string, at time.Time) Node {
	return layout("New Contact Form Submission", "New Contact Form Submission",
		H2(Text("Contact Details:")),
		Ul(Style("list-style: none; padding: 0;"),
			detail("Name", name),
			detail("Email", email),
			detail("Inquiry Type", inquiryType),
			detail("Date", at.Format("2006-01-02 15:04:05")),
		),
		H3(Text("Message:")),
		Div(Style("background: #f8fafc; padding: 15px; border-radius: 8px; border-left: 4px solid #22d3ee;"),
			P(multiline(message)),
		),
	)
}

func enrollmentConfirmation(studentName, courseName string, d CourseDetails) Node {
	return layout("Course Enrollment Confirmation", "Welcome to Azellar Academy!",
		H2(Text("Enrollment Confirmed!")),
		P(Text("Dear "+studentName+",")),
		P(
			Text("Congratulations! You have successfully enrolled in "),
			Strong(Text(courseName)),
			Text("."),
		),
		Div(Style("background: #f0f9ff; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #22d3ee;"),
			H3(Text("Course Details:")),
			Ul(Style("list-style: none; padding: 0;"),
				detail("Course Name", courseName),
				detail("Duration", orTBD(d.Duration)),
				detail("Instructor", orTBD(d.Instructor)),
				detail("Start Date", orTBD(d.StartDate)),
			),
		),
		P(Text("You will receive course materials and joining instructions 1 week before the start date.")),
		Div(Style("text-align: center; margin: 30px 0;"),
			A(Href("https://azellar.com/dashboard"), Style(buttonStyle), Text("View Your Dashboard")),
		),
		P(Text("If you have any questions, please don't hesitate to contact us.")),
		P(Text("Best regards,"), Br(), Text("The Azellar Academy Team")),
	)
}
