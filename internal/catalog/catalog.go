// Package catalog holds the static seed data the platform starts from: the
// user directory, the event list, and the category and tag vocabularies.
//
// Every accessor returns a fresh copy, so callers are free to mutate results.
package catalog

import (
	"time"

	"github.com/Shivanand-hulikatti/virtual-events/internal/model"
)

var categories = []string{
	"Technology",
	"Business",
	"Education",
	"Entertainment",
	"Health",
	"Networking",
	"Workshop",
	"Conference",
	"Webinar",
	"Other",
}

var tags = []string{
	"beginner",
	"advanced",
	"professional",
	"free",
	"paid",
	"certificate",
	"interactive",
	"lecture",
	"panel",
	"Q&A",
	"live",
	"recorded",
	"hybrid",
}

// Categories returns the fixed event category vocabulary.
func Categories() []string {
	return append([]string(nil), categories...)
}

// Tags returns the suggested tag vocabulary. Events may carry other tags too.
func Tags() []string {
	return append([]string(nil), tags...)
}

// IsCategory reports whether name belongs to the category vocabulary.
func IsCategory(name string) bool {
	for _, c := range categories {
		if c == name {
			return true
		}
	}
	return false
}

// Users returns the seeded user directory.
func Users() []model.User {
	return []model.User{
		{
			ID:            "1",
			Name:          "Admin User",
			Email:         "admin@example.com",
			Role:          model.RoleAdmin,
			Avatar:        "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?q=80&w=256&auto=format&fit=crop",
			Bio:           "Platform administrator with full access and control.",
			JoinedEvents:  []string{},
			CreatedEvents: []string{},
		},
		{
			ID:            "2",
			Name:          "Event Organizer",
			Email:         "organizer@example.com",
			Role:          model.RoleOrganizer,
			Avatar:        "https://images.unsplash.com/photo-1494790108377-be9c29b29330?q=80&w=256&auto=format&fit=crop",
			Bio:           "Professional event organizer with 5+ years of experience.",
			JoinedEvents:  []string{"3", "5"},
			CreatedEvents: []string{"1", "2", "4", "6", "8"},
		},
		{
			ID:            "3",
			Name:          "Regular Attendee",
			Email:         "attendee@example.com",
			Role:          model.RoleAttendee,
			Avatar:        "https://images.unsplash.com/photo-1599566150163-29194dcaad36?q=80&w=256&auto=format&fit=crop",
			Bio:           "Enthusiastic event attendee interested in technology and education.",
			JoinedEvents:  []string{"1", "2", "4", "7", "9"},
			CreatedEvents: []string{},
		},
	}
}

// Events returns the seeded event list.
func Events() []model.Event {
	return []model.Event{
		{
			ID:               "1",
			Title:            "Web Development Masterclass",
			Description:      "Learn modern web development techniques from industry experts. This comprehensive workshop covers HTML, CSS, JavaScript, and popular frameworks.",
			Category:         "Technology",
			StartDate:        ts("2025-05-15T10:00:00Z"),
			EndDate:          ts("2025-05-15T14:00:00Z"),
			HostURL:          "https://zoom.us/j/example",
			Image:            "https://images.unsplash.com/photo-1461749280684-dccba630e2f6?q=80&w=869&auto=format&fit=crop",
			Tags:             []string{"beginner", "interactive", "certificate"},
			MaxCapacity:      100,
			CurrentAttendees: 67,
			Organizer:        model.Organizer{ID: "2", Name: "Event Organizer"},
			IsPublic:         true,
			IsFeatured:       true,
			Price:            f(0),
			Rating:           f(4.8),
			Duration:         minutes(240),
		},
		{
			ID:               "2",
			Title:            "Startup Funding Strategies",
			Description:      "Connect with venture capitalists and learn proven strategies to secure funding for your startup.",
			Category:         "Business",
			StartDate:        ts("2025-05-20T15:00:00Z"),
			EndDate:          ts("2025-05-20T17:00:00Z"),
			HostURL:          "https://meet.google.com/example",
			Image:            "https://images.unsplash.com/photo-1579532537598-459ecdaf39cc?q=80&w=869&auto=format&fit=crop",
			Tags:             []string{"professional", "panel", "networking"},
			MaxCapacity:      50,
			CurrentAttendees: 42,
			Organizer:        model.Organizer{ID: "2", Name: "Event Organizer"},
			IsPublic:         true,
			IsFeatured:       false,
			Price:            f(25),
			Rating:           f(4.5),
			Duration:         minutes(120),
		},
		{
			ID:               "3",
			Title:            "Digital Marketing Workshop",
			Description:      "Master the latest digital marketing techniques including SEO, social media marketing, and email campaigns.",
			Category:         "Business",
			StartDate:        ts("2025-05-25T12:00:00Z"),
			EndDate:          ts("2025-05-25T16:00:00Z"),
			HostURL:          "https://teams.microsoft.com/example",
			Image:            "https://images.unsplash.com/photo-1557838923-2985c318be48?q=80&w=869&auto=format&fit=crop",
			Tags:             []string{"beginner", "certificate", "interactive"},
			MaxCapacity:      75,
			CurrentAttendees: 34,
			Organizer:        model.Organizer{ID: "4", Name: "Marketing Professional"},
			IsPublic:         true,
			IsFeatured:       true,
			Price:            f(15),
			Rating:           f(4.2),
			Duration:         minutes(180),
		},
		{
			ID:               "4",
			Title:            "AI in Healthcare Conference",
			Description:      "Explore how artificial intelligence is transforming the healthcare industry with real-world case studies.",
			Category:         "Technology",
			StartDate:        ts("2025-06-05T09:00:00Z"),
			EndDate:          ts("2025-06-05T18:00:00Z"),
			HostURL:          "https://zoom.us/j/example2",
			Image:            "https://images.unsplash.com/photo-1576091160399-112ba8d25d1d?q=80&w=869&auto=format&fit=crop",
			Tags:             []string{"advanced", "panel", "Q&A", "professional"},
			MaxCapacity:      200,
			CurrentAttendees: 156,
			Organizer:        model.Organizer{ID: "2", Name: "Event Organizer"},
			IsPublic:         true,
			IsFeatured:       true,
			Location:         "Virtual",
			Price:            f(50),
			Rating:           f(4.9),
			Duration:         minutes(300),
		},
		{
			ID:               "5",
			Title:            "Yoga for Beginners",
			Description:      "A gentle introduction to yoga practice, focusing on basic poses and proper breathing techniques.",
			Category:         "Health",
			StartDate:        ts("2025-06-10T08:00:00Z"),
			EndDate:          ts("2025-06-10T09:00:00Z"),
			HostURL:          "https://zoom.us/j/example3",
			Image:            "https://images.unsplash.com/photo-1575052814086-f385e2e2ad1b?q=80&w=869&auto=format&fit=crop",
			Tags:             []string{"beginner", "interactive", "live"},
			MaxCapacity:      30,
			CurrentAttendees: 12,
			Organizer:        model.Organizer{ID: "5", Name: "Yoga Instructor"},
			IsPublic:         true,
			IsFeatured:       false,
			Price:            f(10),
			Rating:           f(4.7),
			Duration:         minutes(60),
		},
		{
			ID:               "6",
			Title:            "Leadership and Team Management",
			Description:      "Develop essential leadership skills to effectively manage and inspire your team in the modern workplace.",
			Category:         "Business",
			StartDate:        ts("2025-06-15T13:00:00Z"),
			EndDate:          ts("2025-06-15T16:00:00Z"),
			HostURL:          "https://meet.google.com/example2",
			Image:            "https://images.unsplash.com/photo-1552664730-d307ca884978?q=80&w=869&auto=format&fit=crop",
			Tags:             []string{"professional", "certificate", "lecture"},
			MaxCapacity:      60,
			CurrentAttendees: 42,
			Organizer:        model.Organizer{ID: "2", Name: "Event Organizer"},
			IsPublic:         true,
			IsFeatured:       false,
			Price:            f(30),
			Rating:           f(4.3),
			Duration:         minutes(120),
		},
		{
			ID:               "7",
			Title:            "Introduction to Python Programming",
			Description:      "Start your coding journey with this beginner-friendly Python workshop covering basic syntax and programming concepts.",
			Category:         "Technology",
			StartDate:        ts("2025-06-20T11:00:00Z"),
			EndDate:          ts("2025-06-20T15:00:00Z"),
			HostURL:          "https://zoom.us/j/example4",
			Image:            "https://images.unsplash.com/photo-1515879218367-8466d910aaa4?q=80&w=869&auto=format&fit=crop",
			Tags:             []string{"beginner", "interactive", "certificate"},
			MaxCapacity:      80,
			CurrentAttendees: 52,
			Organizer:        model.Organizer{ID: "6", Name: "Python Developer"},
			IsPublic:         true,
			IsFeatured:       false,
			Price:            f(0),
			Rating:           f(4.6),
			Duration:         minutes(180),
		},
		{
			ID:               "8",
			Title:            "Advanced Data Analysis Masterclass",
			Description:      "Take your data analysis skills to the next level with advanced statistical methods and machine learning concepts.",
			Category:         "Education",
			StartDate:        ts("2025-06-25T14:00:00Z"),
			EndDate:          ts("2025-06-25T18:00:00Z"),
			HostURL:          "https://teams.microsoft.com/example2",
			Image:            "https://images.unsplash.com/photo-1551288049-bebda4e38f71?q=80&w=869&auto=format&fit=crop",
			Tags:             []string{"advanced", "professional", "certificate"},
			MaxCapacity:      40,
			CurrentAttendees: 28,
			Organizer:        model.Organizer{ID: "2", Name: "Event Organizer"},
			IsPublic:         true,
			IsFeatured:       true,
			Price:            f(45),
			Rating:           f(4.8),
			Duration:         minutes(240),
		},
		{
			ID:               "9",
			Title:            "Graphic Design Workshop",
			Description:      "Learn essential graphic design principles and practical skills using industry-standard software tools.",
			Category:         "Education",
			StartDate:        ts("2025-07-05T10:00:00Z"),
			EndDate:          ts("2025-07-05T16:00:00Z"),
			HostURL:          "https://zoom.us/j/example5",
			Image:            "https://images.unsplash.com/photo-1626785774625-ddcddc3445e9?q=80&w=869&auto=format&fit=crop",
			Tags:             []string{"beginner", "interactive", "live"},
			MaxCapacity:      50,
			CurrentAttendees: 32,
			Organizer:        model.Organizer{ID: "7", Name: "Graphic Designer"},
			IsPublic:         true,
			IsFeatured:       false,
			Price:            f(20),
			Rating:           f(4.4),
			Duration:         minutes(120),
		},
		{
			ID:               "10",
			Title:            "Product Management Essentials",
			Description:      "Learn the core practices and methodologies of successful product management in technology companies.",
			Category:         "Business",
			StartDate:        ts("2025-07-10T09:00:00Z"),
			EndDate:          ts("2025-07-10T17:00:00Z"),
			HostURL:          "https://meet.google.com/example3",
			Image:            "https://images.unsplash.com/photo-1559223607-a43c990c692c?q=80&w=869&auto=format&fit=crop",
			Tags:             []string{"professional", "panel", "certificate"},
			MaxCapacity:      70,
			CurrentAttendees: 45,
			Organizer:        model.Organizer{ID: "8", Name: "Product Manager"},
			IsPublic:         true,
			IsFeatured:       true,
			Price:            f(35),
			Rating:           f(4.7),
			Duration:         minutes(180),
		},
	}
}

// Comments returns the seeded event comments.
func Comments() []model.Comment {
	return []model.Comment{
		{
			ID:         "1",
			EventID:    "1",
			UserID:     "3",
			UserName:   "Regular Attendee",
			UserAvatar: "https://images.unsplash.com/photo-1599566150163-29194dcaad36?q=80&w=256&auto=format&fit=crop",
			Content:    "Great session! I learned a lot about modern web development techniques.",
			Timestamp:  ts("2025-05-15T14:30:00Z"),
		},
		{
			ID:         "2",
			EventID:    "1",
			UserID:     "5",
			UserName:   "Jane Smith",
			UserAvatar: "https://images.unsplash.com/photo-1534528741775-53994a69daeb?q=80&w=256&auto=format&fit=crop",
			Content:    "The instructor was very knowledgeable and answered all my questions.",
			Timestamp:  ts("2025-05-15T14:45:00Z"),
		},
		{
			ID:         "3",
			EventID:    "4",
			UserID:     "3",
			UserName:   "Regular Attendee",
			UserAvatar: "https://images.unsplash.com/photo-1599566150163-29194dcaad36?q=80&w=256&auto=format&fit=crop",
			Content:    "Fascinating insights into how AI is transforming healthcare!",
			Timestamp:  ts("2025-06-05T18:15:00Z"),
		},
		{
			ID:         "4",
			EventID:    "2",
			UserID:     "6",
			UserName:   "Michael Brown",
			UserAvatar: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?q=80&w=256&auto=format&fit=crop",
			Content:    "Very practical advice on securing startup funding. Will definitely apply these strategies.",
			Timestamp:  ts("2025-05-20T17:30:00Z"),
		},
	}
}

// CommentsFor returns the comments left on a single event, oldest first.
func CommentsFor(eventID string) []model.Comment {
	out := []model.Comment{}
	for _, c := range Comments() {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	return out
}

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic("catalog: bad timestamp " + value)
	}
	return t
}

func f(v float64) *float64 { return &v }

func minutes(v int) *int { return &v }
