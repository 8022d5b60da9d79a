package faq

import "github.com/starford/sowilo/internal/models"

// DefaultFallback is returned when no record scores above the threshold.
const DefaultFallback = "I'm not sure about that. Please try asking about CodeAlpha internship details, tasks, submission process, or contact information."

// DefaultGreeting opens every new chat session.
const DefaultGreeting = "Hello! I'm the CodeAlpha FAQ Chatbot. Ask me anything about the internship program!"

var defaultRecords = []models.FAQRecord{
	{
		Question: "What is CodeAlpha?",
		Keywords: []string{"codealpha", "company", "about", "what"},
		Answer:   "CodeAlpha is a leading software development company dedicated to driving innovation and excellence across emerging technologies. We provide internship programs in various domains including AI, Web Development, and more.",
	},
	{
		Question: "How do I complete the internship?",
		Keywords: []string{"complete", "finish", "requirements", "internship"},
		Answer:   "To complete the internship, you must complete 2 or 3 tasks from your assigned domain, upload code to GitHub with proper naming (CodeAlpha_ProjectName), post a video explanation on LinkedIn, and submit through the official form.",
	},
	{
		Question: "What are the internship perks?",
		Keywords: []string{"perks", "benefits", "certificate", "offer", "recommendation"},
		Answer:   "You'll receive an Internship Offer Letter, QR Verified Completion Certificate, Unique ID Certificate, Letter of Recommendation (based on performance), Job Opportunities/Placement Support, and Resume Building Support.",
	},
	{
		Question: "How long is the internship?",
		Keywords: []string{"duration", "time", "long", "period"},
		Answer:   "The internship duration varies by program. Please check your offer letter or contact CodeAlpha at services@codealpha.tech for specific timeline details.",
	},
	{
		Question: "What tasks are available in AI domain?",
		Keywords: []string{"tasks", "projects", "ai", "artificial intelligence", "assignment"},
		Answer:   "AI domain offers 4 tasks: Language Translation Tool, Chatbot for FAQs, Music Generation with AI, and Object Detection and Tracking. You need to complete any 2 or 3 of these tasks.",
	},
	{
		Question: "How do I submit my work?",
		Keywords: []string{"submit", "submission", "upload", "form"},
		Answer:   "Submit your completed tasks through the submission form shared in your WhatsApp group. Ensure you've uploaded code to GitHub, posted on LinkedIn with the repo link, and followed all instructions in the form.",
	},
	{
		Question: "What if I complete only one task?",
		Keywords: []string{"one task", "incomplete", "minimum"},
		Answer:   "Completing only one task is considered incomplete. You must complete at least 2 tasks to be eligible for the internship certificate. Certificates will not be issued for incomplete submissions.",
	},
	{
		Question: "How do I contact CodeAlpha?",
		Keywords: []string{"contact", "email", "phone", "whatsapp", "support"},
		Answer:   "You can reach CodeAlpha via Website: www.codealpha.tech, WhatsApp: +91 8052293611, or Email: services@codealpha.tech",
	},
	{
		Question: "Do I need to post on LinkedIn?",
		Keywords: []string{"linkedin", "social media", "post", "share"},
		Answer:   "Yes! You should share your internship status on LinkedIn tagging @CodeAlpha, and post a video explanation of each completed project with your GitHub repository link.",
	},
	{
		Question: "What is the GitHub repository naming convention?",
		Keywords: []string{"github", "repository", "naming", "repo"},
		Answer:   "Your GitHub repository should be named in the format: CodeAlpha_ProjectName. For example, CodeAlpha_ChatbotFAQs or CodeAlpha_MusicGeneration.",
	},
}

// Default returns the built-in internship knowledge base.
func Default() *KnowledgeBase {
	kb, err := NewKnowledgeBase(defaultRecords)
	if err != nil {
		panic(err)
	}
	return kb
}
