package mcpserver

// FAQFormatContract describes how a knowledge-base directory is laid out so
// that assistants can help authors write new entries.
const FAQFormatContract = `# Sowilo FAQ Entry Format

A knowledge base may be a directory of Markdown files, one FAQ entry per file.
Files are read once at startup; the knowledge base never changes while the
server runs.

## Structure

` + "```" + `markdown
---
question: How do I submit my work?   # OPTIONAL, falls back to the first "# " heading
keywords:                            # REQUIRED, at least one (or inline #tags)
  - submit
  - submission
  - form
---

Answer text. Everything after the frontmatter (minus the heading used as the
question) is returned as the answer, trimmed of surrounding whitespace.
` + "```" + `

## Rules

1. **Keywords drive matching.** A question scores the fraction of its words
   (three letters or longer) that contain, or are contained in, some keyword.
   The best entry wins only when that fraction exceeds the threshold (0.2 by default).
2. **Keywords are lower-cased** on load. Multi-word keywords are allowed:
   ` + "`" + `social media` + "`" + ` matches any question word that is a substring of it
   (` + "`" + `social` + "`" + `, ` + "`" + `media` + "`" + `), never the phrase as a whole, because the
   question is split into single words first.
3. **Inline tags** such as ` + "`" + `#certificate` + "`" + ` in the body are added to the keywords.
4. **Order matters.** Files are loaded in lexical path order and ties go to the
   earlier file, so prefix names (` + "`" + `01-about.md` + "`" + `) to control priority.
5. **Only ` + "`" + `.md` + "`" + ` files** are read; other files are ignored.

## Example

` + "```" + `markdown
---
keywords: [certificate, completion, perks]
---

# Will I receive a certificate?

Yes. A QR-verified completion certificate is issued once two tasks are accepted.
` + "```" + `
`
