package vision

// DemoLayout returns a built-in sample analysis result: a dark sales-report
// slide with a title, a figure panel, a chart placeholder and a footer. It
// follows the same contract as real analysis output, so the whole pipeline
// can be exercised without an API key.
func DemoLayout() []byte {
	return []byte(demoLayoutJSON)
}

const demoLayoutJSON = `{
  "image_width": 1280,
  "image_height": 720,
  "background": {"color": "#1E2761"},
  "elements": [
    {
      "kind": "shape",
      "box": {"x": 0, "y": 0, "w": 1280, "h": 720},
      "geometry": "rectangle",
      "fill": "#1E2761"
    },
    {
      "kind": "text",
      "box": {"x": 128, "y": 58, "w": 1024, "h": 86},
      "content": "売上報告 2025年度",
      "font_size": 53,
      "color": "#FFFFFF",
      "align": "center",
      "bold": true
    },
    {
      "kind": "shape",
      "box": {"x": 64, "y": 180, "w": 538, "h": 396},
      "geometry": "rounded_rectangle",
      "fill": "#2A3A8F",
      "border_color": "#4A5ABF",
      "border_width": 2
    },
    {
      "kind": "text",
      "box": {"x": 102, "y": 216, "w": 461, "h": 324},
      "content": "Q1: ¥12,500,000\nQ2: ¥15,800,000\nQ3: ¥18,200,000\nQ4: ¥22,100,000",
      "font_size": 24,
      "color": "#CADCFC",
      "align": "left"
    },
    {
      "kind": "image",
      "box": {"x": 678, "y": 180, "w": 538, "h": 396},
      "description": "売上推移 棒グラフ"
    },
    {
      "kind": "text",
      "box": {"x": 128, "y": 634, "w": 1024, "h": 58},
      "content": "© 2025 Sample Corp. All rights reserved.",
      "font_size": 13,
      "color": "#7788AA",
      "align": "center",
      "italic": true
    }
  ]
}`
