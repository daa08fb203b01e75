// Package domain は撮影のコツなど、解析精度を上げるための静的な案内を定義します。
package domain

// Tip は撮影のコツ1件です。
type Tip struct {
	Title string
	Body  string
}

const (
	// Heading は案内の見出しです。
	Heading = "Tips to improve your photo accuracy"
	// Subheading は見出しの補足です。
	Subheading = "Learn how to take photos that give you the most accurate results"
	// Reminder は推定値が目安であることの注意書きです。
	Reminder = "Please remember that calorie estimations are approximate and intended for informational purposes."
)

var tips = []Tip{
	{
		Title: "Lighting is Key",
		Body:  "Natural light is ideal. If indoors, try to photograph near a window. Avoid using your camera's flash if it creates strong shadows. Well-lit food is easier to analyze.",
	},
	{
		Title: "Show Everything",
		Body:  "Ensure all parts of your meal are visible. If items are stacked or hidden, try to spread them out slightly so they can be identified.",
	},
	{
		Title: "One Plate, One Serving",
		Body:  "Focus on a single portion of food. This helps us accurately estimate the quantities.",
	},
	{
		Title: "Keep it Simple",
		Body:  "A plain, uncluttered background helps our system focus on the food itself. A solid-colored plate or placemat works well.",
	},
	{
		Title: "The Right Angle",
		Body:  "A top-down photo (taken directly above the food) provides the best view for analysis. Avoid angled shots, as they can distort the perceived size of the portions.",
	},
	{
		Title: "Size Matters (Optional)",
		Body:  "For even better accuracy, you can include a reference object of known size (like a standard fork, spoon, or credit card) next to the food. This helps us understand the scale of the meal. Place the object beside the food, not on top of it.",
	},
	{
		Title: "No Filters, Please",
		Body:  "For the most accurate analysis, please upload photos without any filters applied. Filters can alter colors and make it harder to identify ingredients.",
	},
}

// Tips は表示順の撮影のコツを返します。戻り値はコピーです。
func Tips() []Tip {
	return append([]Tip(nil), tips...)
}
