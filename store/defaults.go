package store

// DefaultQuestions are used for a new session when the caller supplies no
// questions of its own.
var DefaultQuestions = []string{
	"What are you most grateful for today?",
	"What's been challenging you lately and how are you handling it?",
	"What are your current goals and what steps are you taking to achieve them?",
	"What's something you've learned about yourself recently?",
	"What would make today a great day for you?",
	"What's one thing you could do differently tomorrow to improve your life?",
	"What relationships in your life need more attention?",
	"What are you looking forward to in the near future?",
	"What's one thing you're proud of accomplishing recently?",
	"How are you taking care of your mental and physical health?",
}
