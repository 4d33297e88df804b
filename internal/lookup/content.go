package lookup

var Jokes = []string{
	"Why did the computer go to the doctor? It had a virus!",
	"Why do programmers prefer dark mode? Because light attracts bugs.",
	"There are only 10 kinds of people in this world: those who know binary and those who don't.",
	"Why was the JavaScript developer sad? Because he didn't Node how to Express himself.",
	"A SQL query walks into a bar, walks up to two tables and asks: can I join you?",
	"Why did the developer go broke? Because he used up all his cache.",
}

var Stories = []string{
	"Once upon a time, there was a friendly AI assistant named Skye who loved helping people with their daily tasks.",
	"In a digital world, humans and artificial intelligence worked together to solve problems and create wonderful things.",
	"There was a curious programmer who built an assistant that could understand voices and bring joy to everyone it helped.",
}

var Tips = []string{
	"Remember to take short breaks to stay focused and productive.",
	"Drinking enough water is essential for both your body and mind.",
	"Practicing gratitude each day can improve your overall happiness.",
	"Getting enough sleep helps your brain function at its best.",
	"Regular exercise, even a short walk, can boost your energy levels.",
}

var News = []string{
	"Technology companies announce new AI developments",
	"Scientists discover potential breakthrough in renewable energy",
	"Global markets show steady growth this quarter",
	"Space exploration reaches new milestones",
	"Healthcare innovations improve treatment options",
}
