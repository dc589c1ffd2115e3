package refine

import "fmt"

func factCritiquePrompt(instruction, content string) string {
	return fmt.Sprintf(`You previously received this instruction:

%s

Here is the current draft of the section:

%s

Review the draft strictly against the attached source documents. Identify
every factual inaccuracy, unsupported claim, missing reference period, or
number that cannot be traced to the documents. List each finding as a short
bullet point. Do not rewrite the section; only critique it.`, instruction, content)
}

func factRevisePrompt(instruction, content, critique string) string {
	return fmt.Sprintf(`You previously received this instruction:

%s

Here is the current draft of the section:

%s

Here is a factual critique of that draft:

%s

Rewrite the section so that every finding in the critique is addressed:
correct inaccurate statements, remove or qualify unsupported claims, and add
missing reference periods. Preserve the existing HTML structure exactly:
keep the enclosing div, the h2 heading, and the table structure with thead
and tbody. Output only the revised HTML, with no markdown code fences.`, instruction, content, critique)
}

func insightCritiquePrompt(instruction, content string) string {
	return fmt.Sprintf(`You previously received this instruction:

%s

Here is the current draft of the section:

%s

Critique the draft for analytical depth. Which non-obvious, multi-step
insights supported by the attached documents are missing? Where does the
draft merely restate the documents instead of reasoning over them? List
concrete suggestions as short bullet points. Do not rewrite the section;
only critique it.`, instruction, content)
}

func insightRevisePrompt(instruction, content, critique string) string {
	return fmt.Sprintf(`You previously received this instruction:

%s

Here is the current draft of the section:

%s

Here is a critique of its analytical depth:

%s

Rewrite the section incorporating the suggested insights, each underpinned
by a brief logical chain grounded in the attached documents. Preserve the
existing HTML structure exactly: keep the enclosing div, the h2 heading, and
the table structure with thead and tbody. Output only the revised HTML, with
no markdown code fences.`, instruction, content, critique)
}

func questionListPrompt(instruction, content string, n int) string {
	return fmt.Sprintf(`You previously received this instruction:

%s

Here is the current draft of the section:

%s

Generate exactly %d follow-up questions an experienced analyst would ask
about gaps in this draft, each answerable from the attached documents.
Output only the numbered questions.`, instruction, content, n)
}

func answerWeavePrompt(instruction, content, questions string) string {
	return fmt.Sprintf(`You previously received this instruction:

%s

Here is the current draft of the section:

%s

Here are follow-up questions about gaps in the draft:

%s

Answer each question from the attached documents, then rewrite the section
weaving the answers into the existing narrative where they fit. Drop any
question the documents cannot answer. Preserve the existing HTML structure
exactly: keep the enclosing div, the h2 heading, and the table structure
with thead and tbody. Output only the revised HTML, with no markdown code
fences.`, instruction, content, questions)
}
