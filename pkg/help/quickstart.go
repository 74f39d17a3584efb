package help

const QuickstartYAML = `# blankscan Quick Start

commands:
  scan_list: |
    blankscan scan --urls "example.com,https://example.org/landing"

  scan_file: |
    blankscan scan --file urls.txt --format csv --output reports/

  scan_stdin: |
    cat urls.txt | blankscan scan --format json --summary

  ci_gate: |
    blankscan scan --file urls.txt --fail-on-blank --quiet

  serve: |
    blankscan serve --addr :8080
    curl -s -X POST localhost:8080/api/scan -d '{"urls":["example.com"]}'

input:
  - "URLs separated by newlines or commas; blank entries are skipped"
  - "Missing scheme gets https://"
  - "Lines starting with # in --file or stdin are comments"
  - "At most 1000 URLs per batch (--max-batch)"

blank_reasons:
  - "Request Failed: <error>"
  - "Redirect Loop / Too Many Redirects"
  - "Status 204 No Content"
  - "HTTP Error <status> with thin content"
  - "HTML too short (<100 chars)"
  - "Single image without text"
  - "Empty Body / No Text"
  - "Low visible text (<30 chars)"

config_file: |
  # blankscan scan --config blankscan.yaml
  max_redirects: 10
  min_text_length: 30
  min_html_length: 100
  timeout: 10s
  concurrency: 10
  max_batch_size: 1000
  rate_limit: 0

outputs:
  table: "Colored console table (default)"
  json: "Exact result array, same as POST /api/scan"
  csv: "URL,Final URL,Status,Redirects,Content Length,Visible Text,Is Blank,Reason"
  yaml: "Result array as YAML"

exit_codes:
  - "0: scan completed"
  - "1: --fail-on-blank and at least one blank page"
  - "2: invalid input or configuration"
`
