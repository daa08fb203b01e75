package usecase

// Generation parameters shared by every inference provider.
// A low temperature keeps estimates repeatable, but byte-exact output is not guaranteed.
const (
	Temperature     = 0.1
	TopP            = 0.95
	TopK            = 40
	MaxOutputTokens = 8192
)

// Instruction is the fixed prompt sent alongside every image.
const Instruction = `Analyze the food photo to determine its calorific content.

**Instructions:**

* **Identify all visible ingredients and infer likely hidden ingredients** (e.g., cooking oil, butter, sauces, dressings, seasonings).
* **For each ingredient, estimate:**
    * **Name:** Be specific (e.g., "grilled chicken breast" instead of just "chicken").
    * **Weight (grams):** Based on the portion size in the photo.
    * **Calories:** Based on the estimated weight and typical calorific values.
    * **Accuracy Percentage:** Your confidence in the identification and the weight/calorie estimate (e.g., 80 if highly confident, 60 if less certain).
* **For hidden ingredients, base the estimate on visual cues and common culinary practice.** Fold that reasoning into the numbers; do not return it.
* **Do not list ingredients that are already included in a whole item** (e.g., a muffin and the muffin's ingredients).
* **Provide an overall accuracy percentage** for the entire analysis, considering all ingredients.
* **Return a single JSON object in exactly this shape:**

{
  "ingredients": [
    {
      "name": "...",
      "grams": 0,
      "calories": 0,
      "accuracy_percentage": 0
    }
  ],
  "overall_accuracy_percentage": 0
}`
