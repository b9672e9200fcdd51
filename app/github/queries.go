package github

const projectItemsQuery = `query($org: String!, $number: Int!, $statusField: String!, $after: String) {
  organization(login: $org) {
    projectV2(number: $number) {
      items(first: 100, after: $after) {
        pageInfo {
          hasNextPage
          endCursor
        }
        nodes {
          isArchived
          fieldValueByName(name: $statusField) {
            ... on ProjectV2ItemFieldSingleSelectValue {
              name
            }
          }
          content {
            ... on Issue {
              number
              title
              repository {
                nameWithOwner
              }
            }
          }
        }
      }
    }
  }
}`

// One round trip fetches the issue, its labels and all three child relations.
const issueQuery = `query($owner: String!, $repo: String!, $number: Int!) {
  repository(owner: $owner, name: $repo) {
    issue(number: $number) {
      title
      body
      url
      updatedAt
      closedAt
      state
      stateReason
      labels(first: 50) {
        nodes {
          name
        }
      }
      trackedIssues(first: 100) {
        nodes {
          ...childIssue
        }
      }
      subIssues(first: 100) {
        nodes {
          ...childIssue
        }
      }
      closedByPullRequestsReferences(first: 50, includeClosedPrs: true) {
        nodes {
          number
          title
          url
          state
          updatedAt
          repository {
            nameWithOwner
          }
        }
      }
    }
  }
}

fragment childIssue on Issue {
  number
  title
  url
  state
  updatedAt
  repository {
    nameWithOwner
  }
}`
