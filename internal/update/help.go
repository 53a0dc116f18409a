package update

const helpMarkdown = `# taskflow keys

| key | action |
| --- | --- |
| 1 / 2 / 3 | switch to home / stats / settings |
| a | add a task |
| j / k | move the cursor |
| space, enter | toggle the selected task |
| p | postpone the selected task |
| x | delete the selected task |
| ? | toggle this help |
| q | quit |

## quick add syntax

A new task is one line. The first words become the title, the rest are
optional tokens in any order:

` + "```" + `
Buy milk !high @personal due:2026-03-01T18:00 +r
` + "```" + `

- ` + "`!low`" + `, ` + "`!medium`" + `, ` + "`!high`" + ` set the priority (default medium)
- ` + "`@work`" + `, ` + "`@personal`" + `, ` + "`@shopping`" + `, ` + "`@health`" + `, ` + "`@other`" + ` set the category
- ` + "`due:2006-01-02`" + ` or ` + "`due:2006-01-02T15:04`" + ` set the due date
- ` + "`+r`" + ` schedules a reminder ahead of the due time, earlier for higher priority

## settings keys

- ` + "`e`" + ` notifications on or off
- ` + "`r`" + ` task reminders
- ` + "`o`" + ` overdue alerts
- ` + "`s`" + ` notification sound
`
